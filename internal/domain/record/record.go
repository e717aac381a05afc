package record

import (
	"encoding/json"
	"strconv"
)

// Record is one literature, taxon or sample entry.
type Record interface {
	RecordID() string
	Kind() Kind
	// Field returns the textual form of a named field.
	// Unknown and empty fields report false.
	Field(name string) (string, bool)
}

var (
	_ Record = (*LiteratureEntry)(nil)
	_ Record = (*Taxon)(nil)
	_ Record = (*Sample)(nil)
)

// LiteratureEntry is a published reference (id format LIT + digits).
//
// Records decoded from JSON keep their source object: Field matches on the
// loaded values whatever their JSON type, and MarshalJSON writes the object
// back unchanged.
type LiteratureEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Authors  string `json:"authors,omitempty"`
	Journal  string `json:"journal,omitempty"`
	Year     string `json:"year,omitempty"`
	DOI      string `json:"doi,omitempty"`
	URL      string `json:"url,omitempty"`
	Abstract string `json:"abstract,omitempty"`
	IsOA     *bool  `json:"is_oa,omitempty"`

	src *source
}

type literatureJSON LiteratureEntry

// UnmarshalJSON decodes any JSON object, coercing scalar values to the
// typed fields where possible.
func (l *LiteratureEntry) UnmarshalJSON(data []byte) error {
	src, err := newSource(data)
	if err != nil || src == nil {
		return err
	}
	*l = LiteratureEntry{
		ID:       src.str("id"),
		Title:    src.str("title"),
		Authors:  src.str("authors"),
		Journal:  src.str("journal"),
		Year:     src.str("year"),
		DOI:      src.str("doi"),
		URL:      src.str("url"),
		Abstract: src.str("abstract"),
		IsOA:     src.boolean("is_oa"),
		src:      src,
	}
	return nil
}

// MarshalJSON writes the source object, or the typed fields for records
// built in code.
func (l LiteratureEntry) MarshalJSON() ([]byte, error) {
	if l.src != nil {
		return l.src.raw, nil
	}
	return json.Marshal(literatureJSON(l))
}

// RecordID returns the literature id.
func (l *LiteratureEntry) RecordID() string { return l.ID }

// Kind returns Literature.
func (l *LiteratureEntry) Kind() Kind { return Literature }

// Field returns a named literature field.
func (l *LiteratureEntry) Field(name string) (string, bool) {
	if l.src != nil {
		return l.src.text(name)
	}
	switch name {
	case "id":
		return present(l.ID)
	case "title":
		return present(l.Title)
	case "authors":
		return present(l.Authors)
	case "journal":
		return present(l.Journal)
	case "year":
		return present(l.Year)
	case "doi":
		return present(l.DOI)
	case "url":
		return present(l.URL)
	case "abstract":
		return present(l.Abstract)
	case "is_oa":
		if l.IsOA == nil {
			return "", false
		}
		return strconv.FormatBool(*l.IsOA), true
	default:
		return "", false
	}
}

// Taxon is a taxonomic name (id format TAX + digits). LitID and ParentTaxID
// are free-form references and are never resolved.
type Taxon struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Level       string `json:"level,omitempty"`
	Type        string `json:"type,omitempty"`
	LitID       string `json:"lit_id,omitempty"`
	ParentTaxID string `json:"parent_tax_id,omitempty"`
	Description string `json:"description,omitempty"`

	src *source
}

type taxonJSON Taxon

// UnmarshalJSON decodes any JSON object, coercing scalars to strings.
func (t *Taxon) UnmarshalJSON(data []byte) error {
	src, err := newSource(data)
	if err != nil || src == nil {
		return err
	}
	*t = Taxon{
		ID:          src.str("id"),
		Name:        src.str("name"),
		Level:       src.str("level"),
		Type:        src.str("type"),
		LitID:       src.str("lit_id"),
		ParentTaxID: src.str("parent_tax_id"),
		Description: src.str("description"),
		src:         src,
	}
	return nil
}

// MarshalJSON writes the source object when there is one.
func (t Taxon) MarshalJSON() ([]byte, error) {
	if t.src != nil {
		return t.src.raw, nil
	}
	return json.Marshal(taxonJSON(t))
}

// RecordID returns the taxon id.
func (t *Taxon) RecordID() string { return t.ID }

// Kind returns Taxonomy.
func (t *Taxon) Kind() Kind { return Taxonomy }

// Field returns a named taxon field.
func (t *Taxon) Field(name string) (string, bool) {
	if t.src != nil {
		return t.src.text(name)
	}
	switch name {
	case "id":
		return present(t.ID)
	case "name":
		return present(t.Name)
	case "level":
		return present(t.Level)
	case "type":
		return present(t.Type)
	case "lit_id":
		return present(t.LitID)
	case "parent_tax_id":
		return present(t.ParentTaxID)
	case "description":
		return present(t.Description)
	default:
		return "", false
	}
}

// Sample is a collected specimen (id format SMP + digits).
type Sample struct {
	ID          string   `json:"id"`
	TaxID       string   `json:"tax_id,omitempty"`
	Collector   string   `json:"collector,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Description string   `json:"description,omitempty"`

	src *source
}

type sampleJSON Sample

// UnmarshalJSON decodes any JSON object. Coordinates given as numeric
// strings still fill Latitude and Longitude.
func (s *Sample) UnmarshalJSON(data []byte) error {
	src, err := newSource(data)
	if err != nil || src == nil {
		return err
	}
	*s = Sample{
		ID:          src.str("id"),
		TaxID:       src.str("tax_id"),
		Collector:   src.str("collector"),
		Latitude:    src.number("latitude"),
		Longitude:   src.number("longitude"),
		Description: src.str("description"),
		src:         src,
	}
	return nil
}

// MarshalJSON writes the source object when there is one.
func (s Sample) MarshalJSON() ([]byte, error) {
	if s.src != nil {
		return s.src.raw, nil
	}
	return json.Marshal(sampleJSON(s))
}

// RecordID returns the sample id.
func (s *Sample) RecordID() string { return s.ID }

// Kind returns Samples.
func (s *Sample) Kind() Kind { return Samples }

// Field returns a named sample field. Numeric coordinates match on their
// shortest decimal form.
func (s *Sample) Field(name string) (string, bool) {
	if s.src != nil {
		return s.src.text(name)
	}
	switch name {
	case "id":
		return present(s.ID)
	case "tax_id":
		return present(s.TaxID)
	case "collector":
		return present(s.Collector)
	case "latitude":
		return number(s.Latitude)
	case "longitude":
		return number(s.Longitude)
	case "description":
		return present(s.Description)
	default:
		return "", false
	}
}
