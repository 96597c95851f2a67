// Package query provides the composable building blocks for listing reads:
// filter conditions, sort specifications, and pagination math. Stages are
// assembled per request and compiled into a single parameterized SQL clause,
// so each builder can be unit tested in isolation.
package query

import (
	"errors"
	"strconv"
	"strings"

	"github.com/youtweet/backend/internal/models"
)

// ErrInvalidArgument indicates a malformed identifier or an otherwise
// unusable scoping parameter. It is never raised for queries that simply
// match nothing.
var ErrInvalidArgument = errors.New("invalid argument")

// Condition is one match stage: a WHERE fragment written with ?
// placeholders plus the arguments that bind them.
type Condition struct {
	Expr string
	Args []any
}

// matchAll is the neutral condition. An empty text query composes to this so
// that "no filter" and "empty filter" select the same set.
var matchAll = Condition{Expr: "TRUE"}

// All returns a condition matching every row.
func All() Condition {
	return matchAll
}

// TextSearch matches rows whose title or description contains the query as a
// case-insensitive substring. An empty or blank query matches everything.
func TextSearch(q string) Condition {
	q = strings.TrimSpace(q)
	if q == "" {
		return matchAll
	}
	pattern := "%" + escapeLike(q) + "%"
	return Condition{
		Expr: "(title ILIKE ? OR description ILIKE ?)",
		Args: []any{pattern, pattern},
	}
}

// OwnedBy scopes to content owned by the given user.
func OwnedBy(ownerID string) Condition {
	return Condition{Expr: "owner_id = ?", Args: []any{ownerID}}
}

// PublishedOnly restricts videos to those visible to the public.
func PublishedOnly() Condition {
	return Condition{Expr: "published"}
}

// OnVideo scopes comments to a single video.
func OnVideo(videoID string) Condition {
	return Condition{Expr: "video_id = ?", Args: []any{videoID}}
}

// LikedBy scopes like rows to those created by the given user.
func LikedBy(userID string) Condition {
	return Condition{Expr: "liked_by = ?", Args: []any{userID}}
}

// TargetKind scopes like rows to one target kind.
func TargetKind(kind models.LikeTargetKind) Condition {
	return Condition{Expr: "target_kind = ?", Args: []any{string(kind)}}
}

// SubscribedTo scopes subscriptions to the given channel.
func SubscribedTo(channelID string) Condition {
	return Condition{Expr: "channel_id = ?", Args: []any{channelID}}
}

// Where combines conditions into a WHERE clause, rebasing ? placeholders to
// $1..$n positional parameters. The returned args line up with the
// placeholders; callers appending LIMIT/OFFSET continue from len(args)+1.
func Where(conds ...Condition) (string, []any) {
	var (
		exprs []string
		args  []any
	)
	for _, c := range conds {
		if c.Expr == "" || c.Expr == matchAll.Expr {
			continue
		}
		exprs = append(exprs, c.Expr)
		args = append(args, c.Args...)
	}
	if len(exprs) == 0 {
		return "", nil
	}
	clause := "WHERE " + strings.Join(exprs, " AND ")
	return rebase(clause, 1), args
}

// rebase rewrites ? placeholders as sequential $n parameters starting at
// the provided index.
func rebase(fragment string, start int) string {
	var b strings.Builder
	n := start
	for _, r := range fragment {
		if r == '?' {
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// escapeLike neutralizes LIKE metacharacters so user input only ever matches
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
