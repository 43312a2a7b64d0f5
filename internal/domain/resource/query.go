package resource

import (
	"strconv"
	"strings"
	"time"

	"github.com/fms/backend/internal/domain/shared"
)

// Standard list parameters understood by every resource
const (
	ParamStatus    = "status"
	ParamSearch    = "search"
	ParamStartDate = "startDate"
	ParamEndDate   = "endDate"
	ParamLimit     = "limit"
)

// BuildQuery compiles raw query parameters into a Query. Parameters the
// resource does not declare are ignored; malformed values are validation
// errors. maxRows caps the limit when the definition has no cap of its own.
func (d *Definition) BuildQuery(f shared.Filter, maxRows int) (Query, error) {
	var q Query
	var problems []string

	if v, ok := f.Get(ParamStatus); ok && d.HasStatus() {
		status, _ := d.FieldByName("status")
		q.Conditions = append(q.Conditions, Condition{Column: status.Column, Op: OpEq, Value: v})
	}

	search := strings.TrimSpace(f.Search)
	if search == "" {
		search, _ = f.Get(ParamSearch)
	}
	q.Search = strings.TrimSpace(search)

	if d.DateColumn != "" {
		if v, ok := f.Get(ParamStartDate); ok {
			t, err := parseDay(v)
			if err != nil {
				problems = append(problems, ParamStartDate+" must be a date in YYYY-MM-DD format")
			} else {
				q.Conditions = append(q.Conditions, Condition{Column: d.DateColumn, Op: OpGte, Value: t})
			}
		}
		if v, ok := f.Get(ParamEndDate); ok {
			t, err := parseDay(v)
			if err != nil {
				problems = append(problems, ParamEndDate+" must be a date in YYYY-MM-DD format")
			} else {
				q.Conditions = append(q.Conditions, Condition{Column: d.DateColumn, Op: OpLt, Value: t.AddDate(0, 0, 1)})
			}
		}
	}

	for _, spec := range d.Filters {
		raw, ok := f.Get(spec.Param)
		if !ok {
			continue
		}
		v, err := Field{Name: spec.Param, Kind: spec.Kind, Size: -1}.Convert(raw)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		q.Conditions = append(q.Conditions, Condition{Column: spec.Column, Op: spec.Op, Value: v})
	}

	limit := f.Limit
	if v, ok := f.Get(ParamLimit); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			problems = append(problems, ParamLimit+" must be a positive integer")
		} else {
			limit = n
		}
	}
	maxLimit := maxRows
	if d.MaxRows > 0 {
		maxLimit = d.MaxRows
	}
	if maxLimit > 0 && (limit <= 0 || limit > maxLimit) {
		limit = maxLimit
	}
	q.Limit = limit

	if len(problems) > 0 {
		return Query{}, shared.NewValidationError(strings.Join(problems, "; "))
	}
	return q, nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseIDs parses a comma-separated id list, dropping duplicates
func ParseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, shared.NewValidationErrorf("invalid id %q", p)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, shared.NewValidationError("ids is required")
	}
	return ids, nil
}

// ParseID parses a single record id from an external value
func ParseID(raw any) (int64, error) {
	if IsBlank(raw) {
		return 0, shared.NewValidationError("id is required")
	}
	id, err := toInt(raw)
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError("id must be a positive integer")
	}
	return id, nil
}
