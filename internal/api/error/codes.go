package error

import "net/http"

type ErrorCode string

const (
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	NotFound                ErrorCode = "not_found"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	TagNotFound             ErrorCode = "tag_not_found"
	TagConflict             ErrorCode = "tag_conflict"
	IngredientConflict      ErrorCode = "ingredient_conflict"
	UserNotFound            ErrorCode = "user_not_found"
	AlreadyFavorited        ErrorCode = "already_favorited"
	NotFavorited            ErrorCode = "not_favorited"
	AlreadyInCart           ErrorCode = "already_in_cart"
	NotInCart               ErrorCode = "not_in_cart"
	AlreadySubscribed       ErrorCode = "already_subscribed"
	NotSubscribed           ErrorCode = "not_subscribed"
	SelfSubscription        ErrorCode = "self_subscription"
	InvalidShortLink        ErrorCode = "invalid_short_link"
	UnitConflict            ErrorCode = "unit_conflict"
	TooManyRequests         ErrorCode = "too_many_requests"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	NotFound:                http.StatusNotFound,
	InvalidCredentials:      http.StatusBadRequest,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusUnprocessableEntity,
	EmailConflict:           http.StatusConflict,
	UsernameConflict:        http.StatusConflict,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	IngredientNotFound:      http.StatusNotFound,
	TagNotFound:             http.StatusNotFound,
	TagConflict:             http.StatusConflict,
	IngredientConflict:      http.StatusConflict,
	UserNotFound:            http.StatusNotFound,
	AlreadyFavorited:        http.StatusBadRequest,
	NotFavorited:            http.StatusBadRequest,
	AlreadyInCart:           http.StatusBadRequest,
	NotInCart:               http.StatusBadRequest,
	AlreadySubscribed:       http.StatusBadRequest,
	NotSubscribed:           http.StatusBadRequest,
	SelfSubscription:        http.StatusBadRequest,
	InvalidShortLink:        http.StatusBadRequest,
	UnitConflict:            http.StatusConflict,
	TooManyRequests:         http.StatusTooManyRequests,
}

// StatusCode returns the HTTP status of ec; unknown codes map to 500.
func (ec ErrorCode) StatusCode() int {
	if status, ok := errorCodeToStatusCode[ec]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (ec ErrorCode) String() string {
	return string(ec)
}
