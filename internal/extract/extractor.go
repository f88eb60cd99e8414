// Package extract maps the FSF XML export onto flat sanction records.
//
// Extraction is deliberately permissive at field level: a missing attribute
// or child element resolves to a documented default and never drops the
// entity. Only a malformed document aborts.
package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"SanctionsExplorer/internal/domain"
	"SanctionsExplorer/internal/ports"
)

// Namespace is the fixed schema namespace of the FSF export. Elements outside
// it are ignored; there is no fallback to unnamespaced tags.
const Namespace = "http://eu.europa.ec/fpi/fsd/export"

const entityElement = "sanctionEntity"

// ParseError reports a document-level XML failure. No partial record set is
// produced when it occurs.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse sanctions XML: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

type xmlNameAlias struct {
	WholeName string   `xml:"wholeName,attr"`
	Remarks   []string `xml:"http://eu.europa.ec/fpi/fsd/export remark"`
}

type xmlSubjectType struct {
	Code string `xml:"code,attr"`
}

type xmlRegulation struct {
	PublicationDate string   `xml:"publicationDate,attr"`
	Programme       string   `xml:"programme,attr"`
	PublicationURLs []string `xml:"http://eu.europa.ec/fpi/fsd/export publicationUrl"`
}

type xmlAddress struct {
	CountryDescription string `xml:"countryDescription,attr"`
}

type xmlSanctionEntity struct {
	ReferenceNumber string          `xml:"euReferenceNumber,attr"`
	NameAliases     []xmlNameAlias  `xml:"http://eu.europa.ec/fpi/fsd/export nameAlias"`
	SubjectType     *xmlSubjectType `xml:"http://eu.europa.ec/fpi/fsd/export subjectType"`
	Regulations     []xmlRegulation `xml:"http://eu.europa.ec/fpi/fsd/export regulation"`
	Addresses       []xmlAddress    `xml:"http://eu.europa.ec/fpi/fsd/export address"`
}

// Extractor parses raw export bytes into sanction records.
type Extractor struct{}

var _ ports.RecordExtractor = (*Extractor)(nil)

// New builds a stateless extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract decodes every namespaced sanctionEntity element anywhere in the
// document, preserving document order. Entities with identical reference
// numbers are all kept.
func (e *Extractor) Extract(raw []byte) ([]domain.SanctionRecord, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	records := make([]domain.SanctionRecord, 0)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Space != Namespace || start.Name.Local != entityElement {
			continue
		}

		var entity xmlSanctionEntity
		if err := decoder.DecodeElement(&entity, &start); err != nil {
			return nil, &ParseError{Err: err}
		}

		records = append(records, buildRecord(entity))
	}

	return records, nil
}

func buildRecord(entity xmlSanctionEntity) domain.SanctionRecord {
	record := domain.SanctionRecord{
		ReferenceID: orDefault(entity.ReferenceNumber, domain.PlaceholderUnknown),
		Name:        domain.PlaceholderUnknown,
		SubjectType: domain.ClassifySubject(""),
		Country:     domain.PlaceholderUnknown,
		Programme:   domain.PlaceholderUnknown,
	}

	if len(entity.NameAliases) > 0 {
		alias := entity.NameAliases[0]
		record.Name = orDefault(alias.WholeName, domain.PlaceholderUnknown)
		if len(alias.Remarks) > 0 {
			record.Remark = alias.Remarks[0]
		}
	}

	if entity.SubjectType != nil {
		record.SubjectType = domain.ClassifySubject(entity.SubjectType.Code)
	}

	if len(entity.Regulations) > 0 {
		reg := entity.Regulations[0]
		record.PublicationDate = reg.PublicationDate
		record.Programme = orDefault(reg.Programme, domain.PlaceholderUnknown)
		if len(reg.PublicationURLs) > 0 {
			record.PublicationURL = strings.TrimSpace(reg.PublicationURLs[0])
		}
	}

	if len(entity.Addresses) > 0 {
		if desc := strings.TrimSpace(entity.Addresses[0].CountryDescription); desc != "" {
			record.Country = domain.TitleCase(desc)
		}
	}

	return record
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
