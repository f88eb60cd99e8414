package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SanctionsExplorer/internal/domain"
)

const samplePayload = `<?xml version="1.0" encoding="UTF-8"?>
<export xmlns="http://eu.europa.ec/fpi/fsd/export" generationDate="2026-08-20">
  <sanctionEntity euReferenceNumber="EU.1.1">
    <nameAlias wholeName="Max Mustermann"/>
    <subjectType code="person"/>
    <regulation publicationDate="2026-01-15" programme="UKR">
      <publicationUrl> https://eur-lex.example/reg1 </publicationUrl>
    </regulation>
    <address countryDescription="germany"/>
  </sanctionEntity>
  <sanctionEntity euReferenceNumber="EU.1.2">
    <nameAlias wholeName="Muster Handels GmbH">
      <remark>front company</remark>
    </nameAlias>
    <subjectType code="enterprise"/>
    <regulation publicationDate="2026-02-01" programme="SYR"/>
  </sanctionEntity>
  <sanctionEntity euReferenceNumber="EU.1.3">
    <subjectType code="person"/>
  </sanctionEntity>
</export>`

func TestExtractAppliesFieldRules(t *testing.T) {
	t.Parallel()

	records, err := New().Extract([]byte(samplePayload))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "EU.1.1", first.ReferenceID)
	assert.Equal(t, "Max Mustermann", first.Name)
	assert.Equal(t, domain.SubjectPerson, first.SubjectType)
	assert.Equal(t, "Germany", first.Country, "country is title-cased")
	assert.Equal(t, "2026-01-15", first.PublicationDate)
	assert.Equal(t, "UKR", first.Programme)
	assert.Equal(t, "", first.Remark)
	assert.Equal(t, "https://eur-lex.example/reg1", first.PublicationURL, "url text is trimmed")

	second := records[1]
	assert.Equal(t, domain.SubjectEntity, second.SubjectType)
	assert.Equal(t, domain.PlaceholderUnknown, second.Country, "missing address falls back")
	assert.Equal(t, "front company", second.Remark)
	assert.Equal(t, "", second.PublicationURL)

	third := records[2]
	assert.Equal(t, domain.PlaceholderUnknown, third.Name, "missing alias falls back")
	assert.Equal(t, domain.SubjectPerson, third.SubjectType)
}

func TestExtractAllFieldsAlwaysPopulated(t *testing.T) {
	t.Parallel()

	payload := `<export xmlns="http://eu.europa.ec/fpi/fsd/export">
		<sanctionEntity/>
	</export>`

	records, err := New().Extract([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 1)

	row := records[0].Row()
	require.Len(t, row, len(domain.FieldNames()))
	assert.Equal(t, domain.PlaceholderUnknown, records[0].ReferenceID)
	assert.Equal(t, domain.PlaceholderUnknown, records[0].Name)
	assert.Equal(t, domain.SubjectType(domain.PlaceholderUnknown), records[0].SubjectType)
	assert.Equal(t, domain.PlaceholderUnknown, records[0].Country)
	assert.Equal(t, domain.PlaceholderUnknown, records[0].Programme)
	assert.Equal(t, "", records[0].PublicationDate)
	assert.Equal(t, "", records[0].Remark)
	assert.Equal(t, "", records[0].PublicationURL)
}

func TestExtractDeterministicAndOrderPreserving(t *testing.T) {
	t.Parallel()

	first, err := New().Extract([]byte(samplePayload))
	require.NoError(t, err)
	second, err := New().Extract([]byte(samplePayload))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "EU.1.1", first[0].ReferenceID)
	assert.Equal(t, "EU.1.2", first[1].ReferenceID)
	assert.Equal(t, "EU.1.3", first[2].ReferenceID)
}

func TestExtractKeepsDuplicateReferenceNumbers(t *testing.T) {
	t.Parallel()

	payload := `<export xmlns="http://eu.europa.ec/fpi/fsd/export">
		<sanctionEntity euReferenceNumber="EU.9.9"/>
		<sanctionEntity euReferenceNumber="EU.9.9"/>
	</export>`

	records, err := New().Extract([]byte(payload))
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExtractIgnoresForeignNamespaces(t *testing.T) {
	t.Parallel()

	payload := `<root xmlns:fsd="http://eu.europa.ec/fpi/fsd/export" xmlns:other="http://example.org/other">
		<sanctionEntity euReferenceNumber="unqualified"/>
		<other:sanctionEntity euReferenceNumber="foreign"/>
		<fsd:sanctionEntity euReferenceNumber="EU.2.1"/>
	</root>`

	records, err := New().Extract([]byte(payload))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "EU.2.1", records[0].ReferenceID)
}

func TestExtractMalformedDocument(t *testing.T) {
	t.Parallel()

	payload := `<export xmlns="http://eu.europa.ec/fpi/fsd/export">
		<sanctionEntity euReferenceNumber="EU.1.1"/>
		<sanctionEntity euReferenceNumber="EU.1.2">`

	records, err := New().Extract([]byte(payload))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
	assert.Nil(t, records, "no partial result on document failure")
}
