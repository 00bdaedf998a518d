// Package appointments implements the upcoming-appointment query over the
// owner / pet / visit graph.
package appointments

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/petclinic/petclinic/internal/clinic"
	"github.com/petclinic/petclinic/internal/model"
)

// ErrNoneFound indicates the query produced no appointments. A missing
// owner, an unparseable date expression and a genuinely empty result all
// collapse into this error; callers cannot tell them apart. Kept this way
// on purpose so clients see the same 404 the API has always returned.
var ErrNoneFound = errors.New("no appointments found")

// NowExpr is the date expression that resolves to the evaluation instant.
const NowExpr = "now"

// thresholdLayout parses a calendar date anchored at the clinic's opening
// hour. A visit scheduled exactly at the threshold is not upcoming.
const thresholdLayout = "2006-01-02 15:04:05"

// Scope selects which owners the query traverses.
type Scope struct {
	ownerID int
	all     bool
}

// ForOwner scopes the query to a single owner.
func ForOwner(id int) Scope {
	return Scope{ownerID: id}
}

// AllOwners scopes the query to every owner in the clinic.
func AllOwners() Scope {
	return Scope{all: true}
}

// Finder answers upcoming-appointment queries against the clinic facade.
type Finder struct {
	clinic clinic.Service
	now    func() time.Time
}

// NewFinder creates a Finder backed by the given facade.
func NewFinder(svc clinic.Service) *Finder {
	return &Finder{clinic: svc, now: time.Now}
}

// Find returns the visits strictly after the threshold encoded by dateExpr,
// in ascending date order. dateExpr is either NowExpr or a calendar date in
// YYYY-MM-DD form, which is anchored at 08:00:00 local time.
//
// An empty result returns ErrNoneFound, as does an unknown owner or a date
// expression that fails to parse.
func (f *Finder) Find(ctx context.Context, scope Scope, dateExpr string) ([]model.Visit, error) {
	threshold, ok := f.threshold(dateExpr)
	if !ok {
		return nil, ErrNoneFound
	}

	owners, err := f.owners(ctx, scope)
	if err != nil {
		if errors.Is(err, clinic.ErrNotFound) {
			return nil, ErrNoneFound
		}
		return nil, err
	}

	var upcoming []model.Visit
	for _, owner := range owners {
		for _, pet := range owner.Pets {
			for _, visit := range pet.Visits {
				if visit.Date.After(threshold) {
					upcoming = append(upcoming, visit)
				}
			}
		}
	}
	if len(upcoming) == 0 {
		return nil, ErrNoneFound
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming, nil
}

// threshold resolves the date expression to a comparison instant.
func (f *Finder) threshold(dateExpr string) (time.Time, bool) {
	if dateExpr == NowExpr {
		return f.now(), true
	}
	t, err := time.ParseInLocation(thresholdLayout, dateExpr+" 08:00:00", time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (f *Finder) owners(ctx context.Context, scope Scope) ([]model.Owner, error) {
	if scope.all {
		return f.clinic.FindAllOwners(ctx)
	}
	owner, err := f.clinic.FindOwnerByID(ctx, scope.ownerID)
	if err != nil {
		return nil, err
	}
	return []model.Owner{*owner}, nil
}
