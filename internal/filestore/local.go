package filestore

import (
	"context"

	"github.com/matt-dz/foodgram/internal/fileserver"
)

// Local keeps files on disk and serves them from urlPrefix on the API host.
type Local struct {
	fs        *fileserver.FileServer
	urlPrefix string
	host      string
}

var _ FileStore = (*Local)(nil)

func NewLocal(baseDirectory, urlPrefix, host string) *Local {
	return &Local{
		fs:        fileserver.New(baseDirectory),
		urlPrefix: urlPrefix,
		host:      host,
	}
}

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	if _, err := l.fs.Write(key, data); err != nil {
		return wrapKeyErr("writing", key, err)
	}
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	if err := l.fs.Delete(key); err != nil {
		return wrapKeyErr("deleting", key, err)
	}
	return nil
}

func (l *Local) URL(key string) string {
	return joinURL(joinURL(l.host, l.urlPrefix), key)
}

// FileServer exposes the underlying disk store so the router can serve it.
func (l *Local) FileServer() *fileserver.FileServer {
	return l.fs
}

func (l *Local) URLPrefix() string {
	return l.urlPrefix
}
