package dict

import (
	"context"
	"fmt"

	"github.com/coolbeans/lawnote/pkg/egov"
)

// PopulatePageSize is the page size used when scanning the full listing.
const PopulatePageSize = 100

// Lister retrieves pages of the full statute listing. egov.Client satisfies
// this interface.
type Lister interface {
	ListLawsPaged(ctx context.Context, limit, offset int) ([]egov.ListedLaw, error)
}

// Populate scans the entire statute listing page by page and registers each
// statute's canonical title, statute number, and official abbreviation as
// aliases. Existing aliases are left untouched. The scan stops at the first
// empty page. Returns the number of aliases inserted.
func (dictionary *Dictionary) Populate(ctx context.Context, lister Lister) (int, error) {
	inserted := 0
	for offset := 0; ; offset += PopulatePageSize {
		page, err := lister.ListLawsPaged(ctx, PopulatePageSize, offset)
		if err != nil {
			return inserted, fmt.Errorf("failed to list laws at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			return inserted, nil
		}

		for _, law := range page {
			entry := Entry{
				LawID:    law.LawID,
				LawNum:   law.LawNum,
				LawTitle: law.LawTitle,
			}
			if dictionary.Register(law.LawTitle, entry) {
				inserted++
			}
			if dictionary.RegisterVerbatim(law.LawNum, entry) {
				inserted++
			}
			if law.Abbrev != "" && dictionary.RegisterVerbatim(law.Abbrev, entry) {
				inserted++
			}
		}
	}
}
