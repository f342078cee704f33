package form

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Review form field names.
const (
	FieldRating  = "review[rating]"
	FieldComment = "review[comment]"
)

// ReviewInput is a submitted review form.
type ReviewInput struct {
	Rating  int    `form:"review[rating]" validate:"required,min=1,max=5"`
	Comment string `form:"review[comment]" validate:"required"`
}

// ParseReview reads and validates a review form.
func ParseReview(r *http.Request) (*ReviewInput, error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	in := &ReviewInput{
		Comment: strings.TrimSpace(r.PostFormValue(FieldComment)),
	}

	if raw := strings.TrimSpace(r.PostFormValue(FieldRating)); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &ValidationError{Messages: []string{
				fmt.Sprintf("%q must be an integer", FieldRating),
			}}
		}
		in.Rating = rating
	}

	if err := Struct(in); err != nil {
		return nil, err
	}
	return in, nil
}

type reviewKey struct{}

// WithReview stores a parsed review form in ctx.
func WithReview(ctx context.Context, in *ReviewInput) context.Context {
	return context.WithValue(ctx, reviewKey{}, in)
}

// ReviewFromContext returns the parsed review form, or nil.
func ReviewFromContext(ctx context.Context) *ReviewInput {
	in, _ := ctx.Value(reviewKey{}).(*ReviewInput)
	return in
}
