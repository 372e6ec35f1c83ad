package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tr := NewTranslator()

	t.Run("Count With Offer Status Filter", func(t *testing.T) {
		intent := tr.Translate("how many candidates with accepted offers")
		require.NotNil(t, intent)
		assert.Equal(t, OpCount, intent.Type)
		assert.Equal(t, CollectionCandidates, intent.Collection)
		assert.Equal(t, map[string]string{FilterOfferStatus: "ACCEPTED"}, intent.Filters)
	})

	t.Run("Not A Data Query", func(t *testing.T) {
		assert.Nil(t, tr.Translate("tell me a joke"))
		assert.Nil(t, tr.Translate("what is the meaning of life"))
		assert.Nil(t, tr.Translate(""))
	})

	t.Run("Verb Without Collection Returns Nil", func(t *testing.T) {
		assert.Nil(t, tr.Translate("how many are there"))
		assert.Nil(t, tr.Translate("show me everything"))
	})

	t.Run("Find Query", func(t *testing.T) {
		intent := tr.Translate("list all employees")
		require.NotNil(t, intent)
		assert.Equal(t, OpFind, intent.Type)
		assert.Equal(t, CollectionEmployees, intent.Collection)
		assert.Empty(t, intent.Filters)
	})

	t.Run("Count Outranks Find", func(t *testing.T) {
		intent := tr.Translate("show me how many candidates applied")
		require.NotNil(t, intent)
		assert.Equal(t, OpCount, intent.Type)
	})

	t.Run("Implicit Query From Status Plus Collection", func(t *testing.T) {
		intent := tr.Translate("active employees")
		require.NotNil(t, intent)
		assert.Equal(t, OpFind, intent.Type)
		assert.Equal(t, CollectionEmployees, intent.Collection)
		assert.Equal(t, "Active", intent.Filters[FilterStatus])
	})

	t.Run("Status Word Alone Is Not A Query", func(t *testing.T) {
		assert.Nil(t, tr.Translate("everything is pending right now"))
	})

	t.Run("Stats Query", func(t *testing.T) {
		intent := tr.Translate("candidates statistics")
		require.NotNil(t, intent)
		assert.Equal(t, OpStats, intent.Type)
		assert.Equal(t, CollectionCandidates, intent.Collection)
	})

	t.Run("Schema Query Needs No Collection", func(t *testing.T) {
		intent := tr.Translate("what fields can I query")
		require.NotNil(t, intent)
		assert.Equal(t, OpSchema, intent.Type)
		assert.Empty(t, intent.Collection)
	})

	t.Run("Candidate Statuses Are Upper Case", func(t *testing.T) {
		intent := tr.Translate("how many candidates with rejected offers")
		require.NotNil(t, intent)
		assert.Equal(t, "REJECTED", intent.Filters[FilterOfferStatus])

		intent = tr.Translate("how many candidates with pending offers")
		require.NotNil(t, intent)
		assert.Equal(t, "PENDING", intent.Filters[FilterOfferStatus])
	})

	t.Run("General Statuses Are Title Case", func(t *testing.T) {
		intent := tr.Translate("show rejected onboarding submissions")
		require.NotNil(t, intent)
		assert.Equal(t, CollectionSubmissions, intent.Collection)
		assert.Equal(t, "Rejected", intent.Filters[FilterStatus])
	})

	t.Run("Inactive Wins Over Active Substring", func(t *testing.T) {
		intent := tr.Translate("list inactive employees")
		require.NotNil(t, intent)
		assert.Equal(t, "Inactive", intent.Filters[FilterStatus])
	})

	t.Run("Longer Status Phrases Win", func(t *testing.T) {
		intent := tr.Translate("show onboarding submissions under review")
		require.NotNil(t, intent)
		assert.Equal(t, "Under Review", intent.Filters[FilterStatus])
	})

	t.Run("First Status Match Wins", func(t *testing.T) {
		// Both terms present; the declared mapping order decides
		intent := tr.Translate("how many candidates accepted or rejected offers")
		require.NotNil(t, intent)
		assert.Equal(t, "ACCEPTED", intent.Filters[FilterOfferStatus])
	})

	t.Run("Department Filter Only For Employees", func(t *testing.T) {
		intent := tr.Translate("list employees in engineering")
		require.NotNil(t, intent)
		assert.Equal(t, "Engineering", intent.Filters[FilterDepartment])

		intent = tr.Translate("list candidates in engineering")
		require.NotNil(t, intent)
		assert.Equal(t, CollectionCandidates, intent.Collection)
		assert.NotContains(t, intent.Filters, FilterDepartment)
	})

	t.Run("At Most One Status And One Department", func(t *testing.T) {
		intent := tr.Translate("show active employees in sales and marketing")
		require.NotNil(t, intent)
		assert.Len(t, intent.Filters, 2)
		assert.Equal(t, "Active", intent.Filters[FilterStatus])
		assert.Equal(t, "Sales", intent.Filters[FilterDepartment])
	})

	t.Run("Collection Rule Order Decides Ties", func(t *testing.T) {
		intent := tr.Translate("how many candidates became employees")
		require.NotNil(t, intent)
		assert.Equal(t, CollectionCandidates, intent.Collection)
	})
}

func TestTemplatesCoverTranslator(t *testing.T) {
	tr := NewTranslator()

	// Every canned prompt must translate to a non-nil intent, otherwise the
	// button-driven UI would offer a dead prompt.
	for _, tmpl := range queryTemplates {
		intent := tr.Translate(tmpl.query)
		require.NotNil(t, intent, "template %s did not translate", tmpl.ID)
		assert.NotEmpty(t, intent.Type)
	}
}

func TestTemplates(t *testing.T) {
	t.Run("Lists All Templates", func(t *testing.T) {
		templates := Templates()
		assert.Len(t, templates, len(queryTemplates))
		for _, tmpl := range templates {
			assert.NotEmpty(t, tmpl.ID)
			assert.NotEmpty(t, tmpl.Title)
		}
	})

	t.Run("Valid Template IDs", func(t *testing.T) {
		assert.True(t, IsValidTemplate("accepted_offers"))
		assert.False(t, IsValidTemplate("drop_all_tables"))
	})
}
