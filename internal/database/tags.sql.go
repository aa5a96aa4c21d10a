package database

import (
	"context"
)

const countTagsByIDs = `-- name: CountTagsByIDs :one
SELECT count(*) FROM tags WHERE id = ANY($1::bigint[])
`

func (q *Queries) CountTagsByIDs(ctx context.Context, ids []int64) (int64, error) {
	row := q.db.QueryRow(ctx, countTagsByIDs, ids)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createTag = `-- name: CreateTag :one
INSERT INTO tags (name, slug) VALUES ($1, $2)
ON CONFLICT (slug) DO NOTHING
RETURNING id
`

type CreateTagParams struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateTag returns pgx.ErrNoRows when a tag with the same slug exists.
func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (int64, error) {
	row := q.db.QueryRow(ctx, createTag, arg.Name, arg.Slug)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getTag = `-- name: GetTag :one
SELECT id, name, slug FROM tags WHERE id = $1
`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, getTag, id)
	var i Tag
	err := row.Scan(&i.ID, &i.Name, &i.Slug)
	return i, err
}

const listTags = `-- name: ListTags :many
SELECT id, name, slug FROM tags ORDER BY name
`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Tag{}
	for rows.Next() {
		var i Tag
		if err := rows.Scan(&i.ID, &i.Name, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
