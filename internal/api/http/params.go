package apihttp

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"energia-cloud/internal/validation"
)

// PathID parses the path variable name as a positive integer id.
// field names the parameter in the validation detail.
func PathID(r *http.Request, name, field string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, validation.Errors{}.Add(field, "deve ser um número inteiro positivo")
	}
	return id, nil
}

// Paging reads skip and limit from the query string.
// Absent values take the given defaults; negative or non-integer values fail.
func Paging(r *http.Request, defaultSkip, defaultLimit int) (int, int, error) {
	var errs validation.Errors
	skip, ok := queryInt(r, "skip", defaultSkip)
	if !ok {
		errs = errs.Add("skip", "deve ser um número inteiro maior ou igual a 0")
	}
	limit, ok := queryInt(r, "limit", defaultLimit)
	if !ok {
		errs = errs.Add("limit", "deve ser um número inteiro maior ou igual a 0")
	}
	if err := errs.OrNil(); err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	values, present := r.URL.Query()[key]
	if !present || len(values) == 0 {
		return fallback, true
	}
	parsed, err := strconv.Atoi(values[0])
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
