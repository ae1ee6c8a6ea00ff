// Package validation checks names proposed for new dashboards against what
// already exists on the Grafana instance.
package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/grafana-tools/sdk"
	"golang.org/x/sync/errgroup"
)

const (
	TypeRequired = "REQUIRED"
	TypeExisting = "EXISTING"
)

// rootFolderName is the name Grafana gives to folder 0.
const rootFolderName = "general"

// ValidationError is a name rejected for a known reason, identified by Type.
type ValidationError struct {
	Type    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Searcher is implemented by *sdk.Client.
type Searcher interface {
	Search(ctx context.Context, params ...sdk.SearchParam) ([]sdk.FoundBoard, error)
}

type NameValidator struct {
	searcher Searcher
}

func NewNameValidator(searcher Searcher) *NameValidator {
	return &NameValidator{searcher: searcher}
}

// ValidateNewDashboardName returns nil when name can be used for a new
// dashboard in the folder, a *ValidationError when it cannot, and any other
// error when the check itself failed.
func (v *NameValidator) ValidateNewDashboardName(ctx context.Context, folderID int64, name string) error {
	name = strings.TrimSpace(name)
	lowered := strings.ToLower(name)

	if name == "" {
		return &ValidationError{Type: TypeRequired, Message: "Name is required"}
	}

	if folderID == 0 && lowered == rootFolderName {
		return &ValidationError{Type: TypeExisting, Message: "This is a reserved name and cannot be used for a folder."}
	}

	searches := []struct {
		kind  string
		param sdk.SearchParam
	}{
		{"folders", sdk.SearchType(sdk.SearchTypeFolder)},
		{"dashboards", sdk.SearchType(sdk.SearchTypeDashboard)},
	}
	results := make([][]sdk.FoundBoard, len(searches))

	g, gctx := errgroup.WithContext(ctx)
	for i, search := range searches {
		g.Go(func() error {
			hits, err := v.searcher.Search(gctx,
				search.param,
				sdk.SearchFolderID(int(folderID)),
				sdk.SearchQuery(name),
			)
			if err != nil {
				return fmt.Errorf("could not search %s named %q: %w", search.kind, name, err)
			}
			results[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, hits := range results {
		for _, hit := range hits {
			if strings.ToLower(hit.Title) == lowered {
				return &ValidationError{Type: TypeExisting, Message: "A dashboard in this folder with the same name already exists"}
			}
		}
	}

	return nil
}
