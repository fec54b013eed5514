// Package egov provides a client for the e-Gov law API v2, the Japanese
// government's statute database. It exposes title search, paged full listings,
// and full-text retrieval, and normalizes the API's recursive law_full_text
// JSON tree into plain block-separated text.
package egov

import (
	"encoding/json"
	"fmt"
)

// LawCandidate is a single search result from the /laws endpoint, reduced to
// the fields the crawler needs to identify and fetch a statute.
type LawCandidate struct {
	// LawID is the stable statute identifier (e.g. "334AC0000000121").
	LawID string `json:"law_id,omitempty"`

	// LawNum is the statute number (e.g. "昭和三十四年法律第百二十一号").
	LawNum string `json:"law_num,omitempty"`

	// LawTitle is the officially registered statute name.
	LawTitle string `json:"law_title"`

	// PromulgationDate is the promulgation date, when the API supplies one.
	PromulgationDate string `json:"promulgation_date,omitempty"`
}

// IdentityKey returns a deduplication key for the candidate, preferring the
// stable law ID, then the statute number, then the title. The ordering
// reflects decreasing reliability of each field as a stable key.
func (candidate LawCandidate) IdentityKey() string {
	if candidate.LawID != "" {
		return "id:" + candidate.LawID
	}
	if candidate.LawNum != "" {
		return "num:" + candidate.LawNum
	}
	return "title:" + candidate.LawTitle
}

// IDDisplay returns the law ID for log output, or "-" when absent.
func (candidate LawCandidate) IDDisplay() string {
	if candidate.LawID == "" {
		return "-"
	}
	return candidate.LawID
}

// LawContents is a fetched statute body normalized for note generation.
// Produced once per fetch and never mutated afterwards.
type LawContents struct {
	// LawID is the stable statute identifier.
	LawID string

	// LawNum is the statute number.
	LawNum string

	// LawTitle is the officially registered statute name.
	LawTitle string

	// Text is the plain rendered body: whitespace-collapsed, one block per line.
	Text string

	// OriginalXML holds the raw source markup. Reserved for provenance;
	// currently never populated.
	OriginalXML string
}

// lawsResponse is the wire shape of the /laws endpoint.
type lawsResponse struct {
	Laws []lawsResponseLaw `json:"laws"`
}

// lawsResponseLaw is one statute entry in a /laws response.
type lawsResponseLaw struct {
	LawInfo      lawInfo      `json:"law_info"`
	RevisionInfo revisionInfo `json:"revision_info"`
}

// lawInfo carries the revision-independent statute fields.
type lawInfo struct {
	LawID            string `json:"law_id"`
	LawNum           string `json:"law_num"`
	PromulgationDate string `json:"promulgation_date"`
}

// revisionInfo carries the revision-dependent statute fields.
type revisionInfo struct {
	LawTitle string `json:"law_title"`
	Abbrev   string `json:"abbrev"`
}

// lawDataResponse is the wire shape of the /law_data/{id} endpoint.
type lawDataResponse struct {
	LawInfo      lawInfo         `json:"law_info"`
	RevisionInfo revisionInfo    `json:"revision_info"`
	LawFullText  json.RawMessage `json:"law_full_text"`
}

// ListedLaw is one statute from a full-listing page, including the optional
// registered abbreviation used as a dictionary alias.
type ListedLaw struct {
	LawID            string
	LawNum           string
	LawTitle         string
	Abbrev           string
	PromulgationDate string
}

// parseLawCandidates converts a /laws response into candidates, dropping
// entries that duplicate an earlier (id, num, title) triple.
func parseLawCandidates(response lawsResponse) []LawCandidate {
	seen := make(map[string]bool)
	candidates := make([]LawCandidate, 0, len(response.Laws))

	for _, law := range response.Laws {
		candidate := LawCandidate{
			LawID:            law.LawInfo.LawID,
			LawNum:           law.LawInfo.LawNum,
			LawTitle:         law.RevisionInfo.LawTitle,
			PromulgationDate: law.LawInfo.PromulgationDate,
		}
		key := fmt.Sprintf("%s|%s|%s", candidate.LawID, candidate.LawNum, candidate.LawTitle)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, candidate)
	}

	return candidates
}

// parseLawContents converts a /law_data response into normalized contents,
// flattening the law_full_text tree into plain text.
func parseLawContents(response lawDataResponse) (*LawContents, error) {
	text, err := FlattenLawFullText(response.LawFullText)
	if err != nil {
		return nil, err
	}

	return &LawContents{
		LawID:    response.LawInfo.LawID,
		LawNum:   response.LawInfo.LawNum,
		LawTitle: response.RevisionInfo.LawTitle,
		Text:     text,
	}, nil
}
