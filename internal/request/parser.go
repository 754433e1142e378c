// Package request maps DataTables-style URL query parameters onto the grid
// request descriptor.
package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gridkit/gridexpr/internal/domain"
)

// Page carries the paging portion of a grid query.
type Page struct {
	Draw   int
	Start  int
	Length int
}

const defaultPageLength = 10

// Parse decodes the DataTables request protocol: columns[i][...] descriptors,
// order[i][...] directives, the global search[value], and paging parameters.
func Parse(values url.Values) (domain.GridRequest, Page, error) {
	req := domain.GridRequest{}

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("columns[%d]", i)
		if !hasColumn(values, prefix) {
			break
		}

		col := domain.Column{
			Name:       values.Get(prefix + "[name]"),
			Field:      values.Get(prefix + "[data]"),
			Searchable: parseFlag(values.Get(prefix + "[searchable]")),
			Sortable:   parseFlag(values.Get(prefix + "[orderable]")),
		}
		if col.Name == "" {
			col.Name = col.Field
		}
		if v := values.Get(prefix + "[search][value]"); strings.TrimSpace(v) != "" {
			col.Search = &domain.Search{Value: v}
		}
		req.Columns = append(req.Columns, col)
	}

	for i := 0; ; i++ {
		prefix := fmt.Sprintf("order[%d]", i)
		raw := values.Get(prefix + "[column]")
		if raw == "" {
			break
		}

		idx, err := strconv.Atoi(raw)
		if err != nil {
			return domain.GridRequest{}, Page{}, fmt.Errorf("invalid order column reference %q: %w", raw, err)
		}
		if idx < 0 || idx >= len(req.Columns) {
			return domain.GridRequest{}, Page{}, fmt.Errorf("order column index %d out of range", idx)
		}

		direction := domain.SortDirectionAsc
		if strings.EqualFold(values.Get(prefix+"[dir]"), string(domain.SortDirectionDesc)) {
			direction = domain.SortDirectionDesc
		}
		req.Columns[idx].Sort = &domain.Sort{Priority: i, Direction: direction}
	}

	if v := values.Get("search[value]"); strings.TrimSpace(v) != "" {
		req.Search = &domain.Search{Value: v}
	}

	page, err := parsePage(values)
	if err != nil {
		return domain.GridRequest{}, Page{}, err
	}

	return req, page, nil
}

func hasColumn(values url.Values, prefix string) bool {
	_, ok := values[prefix+"[data]"]
	if !ok {
		_, ok = values[prefix+"[name]"]
	}
	return ok
}

func parseFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func parsePage(values url.Values) (Page, error) {
	page := Page{Length: defaultPageLength}

	for _, field := range []struct {
		key string
		dst *int
	}{
		{"draw", &page.Draw},
		{"start", &page.Start},
		{"length", &page.Length},
	} {
		raw := values.Get(field.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Page{}, fmt.Errorf("invalid %s parameter %q: %w", field.key, raw, err)
		}
		*field.dst = n
	}

	if page.Start < 0 {
		page.Start = 0
	}
	return page, nil
}
