// internal/models/pitch.go
package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// PitchDocument is the generation service's result. Every field is optional and the
// document is read-only to this module: gaps are filled for presentation only.
type PitchDocument struct {
	Tagline          string          `json:"tagline,omitempty"`
	ElevatorPitch    string          `json:"elevator_pitch,omitempty"`
	ExecutiveSummary string          `json:"executive_summary,omitempty"`
	Slides           []Slide         `json:"slides,omitempty"`
	Financials       []FinancialYear `json:"financials,omitempty"`
	Assumptions      []string        `json:"assumptions,omitempty"`

	// Authoritative when present. Kept raw so passthrough is byte-identical.
	BudgetBreakdown json.RawMessage `json:"budget_breakdown,omitempty"`
	ProfitBasis     json.RawMessage `json:"profit_basis,omitempty"`

	// Set by the service when the model output could not be parsed completely.
	PartialNote string `json:"_note,omitempty"`
	Note        string `json:"note,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`

	raw json.RawMessage
}

type Slide struct {
	Title        string   `json:"title"`
	Bullets      []string `json:"bullets,omitempty"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
}

// UnmarshalJSON decodes every section on its own. A section with the wrong shape
// is coerced when the intent is clear (a lone string where a list belongs) and
// dropped otherwise, so one bad field never costs the rest of the document.
// Only a body that is not a JSON object fails.
func (d *PitchDocument) UnmarshalJSON(data []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return err
	}
	if sections == nil {
		return nil
	}

	*d = PitchDocument{
		Tagline:          decodeText(sections["tagline"]),
		ElevatorPitch:    decodeText(sections["elevator_pitch"]),
		ExecutiveSummary: decodeText(sections["executive_summary"]),
		Slides:           decodeSlides(sections["slides"]),
		Financials:       decodeFinancials(sections["financials"]),
		Assumptions:      decodeTextList(sections["assumptions"]),
		BudgetBreakdown:  sections["budget_breakdown"],
		ProfitBasis:      sections["profit_basis"],
		PartialNote:      decodeText(sections["_note"]),
		Note:             decodeText(sections["note"]),
		RawResponse:      decodeText(sections["raw_response"]),
		raw:              append(json.RawMessage(nil), data...),
	}
	return nil
}

// Raw returns the document exactly as the service sent it, undeclared keys
// included. It is nil for documents built in code.
func (d *PitchDocument) Raw() json.RawMessage {
	if d == nil {
		return nil
	}
	return d.raw
}

func (s *Slide) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return nil
	}
	*s = Slide{
		Title:        decodeText(fields["title"]),
		Bullets:      decodeTextList(fields["bullets"]),
		SpeakerNotes: decodeText(fields["speaker_notes"]),
	}
	return nil
}

// decodeText reads a string, or the literal text of a number or bool. Objects
// and arrays read as empty.
func decodeText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// decodeTextList reads a list of strings. A single string becomes a
// one-element list; elements that are not text are skipped.
func decodeTextList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := decodeText(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := decodeText(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// elements splits a list section into its items. A lone object is treated as
// a list of one; null items are skipped.
func elements(raw json.RawMessage) []json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		out := items[:0]
		for _, item := range items {
			if present(item) {
				out = append(out, item)
			}
		}
		return out
	case '{':
		return []json.RawMessage{trimmed}
	default:
		return nil
	}
}

func decodeSlides(raw json.RawMessage) []Slide {
	var out []Slide
	for _, item := range elements(raw) {
		var slide Slide
		if err := json.Unmarshal(item, &slide); err == nil {
			out = append(out, slide)
		}
	}
	return out
}

func decodeFinancials(raw json.RawMessage) []FinancialYear {
	var out []FinancialYear
	for _, item := range elements(raw) {
		var year FinancialYear
		if err := json.Unmarshal(item, &year); err == nil {
			out = append(out, year)
		}
	}
	return out
}

// HasBudgetBreakdown reports whether the service supplied an authoritative budget.
func (d *PitchDocument) HasBudgetBreakdown() bool {
	return d != nil && present(d.BudgetBreakdown)
}

// HasProfitBasis reports whether the service supplied an authoritative profit model.
func (d *PitchDocument) HasProfitBasis() bool {
	return d != nil && present(d.ProfitBasis)
}

// IsPartial reports whether the service flagged the document as truncated or unparsed.
func (d *PitchDocument) IsPartial() bool {
	return d != nil && (d.PartialNote != "" || d.RawResponse != "")
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// FinancialYear is one row of the projection. Cost and profit are supplied
// independently; revenue - cost = profit is not enforced.
type FinancialYear struct {
	Year    int
	Revenue decimal.NullDecimal
	Cost    decimal.NullDecimal
	Profit  decimal.NullDecimal
}

var (
	digitsPattern  = regexp.MustCompile(`-?\d+`)
	amountReplacer = strings.NewReplacer(",", "", "₹", "", "INR", "", "Rs.", "", "Rs", "", " ", "", "_", "")
)

// UnmarshalJSON accepts numbers, numeric strings with grouping separators and nulls.
// Values that cannot be read as a number decode as null rather than failing the document.
func (f *FinancialYear) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	*f = FinancialYear{
		Year:    parseYear(raw["year"]),
		Revenue: parseAmount(raw["revenue"]),
		Cost:    parseAmount(raw["cost"]),
		Profit:  parseAmount(raw["profit"]),
	}
	return nil
}

func (f FinancialYear) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"year":    f.Year,
		"revenue": amountJSON(f.Revenue),
		"cost":    amountJSON(f.Cost),
		"profit":  amountJSON(f.Profit),
	})
}

func amountJSON(v decimal.NullDecimal) json.RawMessage {
	if !v.Valid {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.Decimal.String())
}

func parseYear(v interface{}) int {
	if v == nil {
		return 0
	}
	if n, err := cast.ToIntE(v); err == nil {
		return n
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0
	}
	if m := digitsPattern.FindString(s); m != "" {
		return cast.ToInt(m)
	}
	return 0
}

func parseAmount(v interface{}) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.NullDecimal{}
	}
	s = amountReplacer.Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
