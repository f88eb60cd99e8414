package domain

// PlaceholderUnknown substitutes fields the source document does not carry.
// The FSF list is published by the EU and the value mirrors its German UI.
const PlaceholderUnknown = "Unbekannt"

// SanctionRecord is one listed person or organization from the FSF export.
// Every field is always populated: either with extracted data or with the
// documented fallback, so consumers never deal with absent columns.
type SanctionRecord struct {
	ReferenceID     string
	Name            string
	SubjectType     SubjectType
	Country         string
	PublicationDate string
	Programme       string
	Remark          string
	PublicationURL  string
}

// FieldNames lists the record columns in export order.
func FieldNames() []string {
	return []string{
		"reference_id",
		"name",
		"subject_type",
		"country",
		"publication_date",
		"programme",
		"remark",
		"publication_url",
	}
}

// Row renders the record as export columns, aligned with FieldNames.
func (r SanctionRecord) Row() []string {
	return []string{
		r.ReferenceID,
		r.Name,
		string(r.SubjectType),
		r.Country,
		r.PublicationDate,
		r.Programme,
		r.Remark,
		r.PublicationURL,
	}
}
