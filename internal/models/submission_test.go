package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicantLabel(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		want string
	}{
		{"person", Submission{ApplicantType: ApplicantPerson, Person: &Person{FullName: " Anna Bianchi "}}, "Anna Bianchi"},
		{"company", Submission{ApplicantType: ApplicantCompany, Company: &Company{Name: "ACME S.r.l."}}, "ACME S.r.l."},
		{"joint", Submission{ApplicantType: ApplicantJoint}, "Più soggetti"},
		{"person without record", Submission{ApplicantType: ApplicantPerson}, ""},
		{"unknown type", Submission{ApplicantType: "altro"}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sub.ApplicantLabel())
		})
	}
}

func TestContactEmail(t *testing.T) {
	person := Submission{ApplicantType: ApplicantPerson, Person: &Person{Email: "anna@example.com"}}
	assert.Equal(t, "anna@example.com", person.ContactEmail())

	company := Submission{ApplicantType: ApplicantCompany, Company: &Company{Email: "ip@acme.example.com"}}
	assert.Equal(t, "ip@acme.example.com", company.ContactEmail())

	joint := Submission{ApplicantType: ApplicantJoint, Person: &Person{Email: "anna@example.com"}}
	assert.Empty(t, joint.ContactEmail())
}

func TestSubmission_DecodeKnownFields(t *testing.T) {
	raw := `{
		"privacyViewed": true,
		"applicantType": "Persona fisica",
		"person": {"fullName": "Anna Bianchi"},
		"inventors": [{"fullName": "A B"}],
		"inventionTypes": ["Software", "Dispositivo"],
		"website": ""
	}`

	var sub Submission
	require.NoError(t, json.Unmarshal([]byte(raw), &sub))

	assert.True(t, sub.PrivacyViewed)
	assert.Equal(t, ApplicantPerson, sub.ApplicantType)
	require.NotNil(t, sub.Person)
	assert.Equal(t, "Anna Bianchi", sub.Person.FullName)
	require.Len(t, sub.Inventors, 1)
	assert.Equal(t, []string{"Software", "Dispositivo"}, sub.InventionTypes)
	assert.Empty(t, sub.Website)
}

func TestTotalSize(t *testing.T) {
	atts := []Attachment{{Size: 3}, {Size: 7}}
	assert.Equal(t, int64(10), TotalSize(atts))
	assert.Equal(t, int64(0), TotalSize(nil))
}
