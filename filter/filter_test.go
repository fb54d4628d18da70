package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitl/scimdir/models"
)

const namespace = "urn:okta:onprem_app:1.0:user:custom"

func sampleUsers() (models.User, models.User) {
	kkl := models.User{
		ID:       "101",
		UserName: "kkl",
		Name:     &models.Name{FamilyName: "Lei", GivenName: "Karmen"},
		Emails:   []models.Email{{Value: "klei@example.com", Type: "work", Primary: true}},
		Active:   true,
	}
	bag := kkl.CustomBag(namespace, true)
	bag.SetBool("isAdmin", false)
	bag.SetString("departmentName", "Cloud Service")
	bag.SetString("city", "Oslo", "address")
	bag.SetInt("level", 3)

	admin := models.User{
		ID:       "102",
		UserName: "admin",
		Name:     &models.Name{FamilyName: "Jensen", GivenName: "Barbara"},
		Emails:   []models.Email{{Value: "bjensen@example.com", Type: "work", Primary: true}},
	}
	admin.CustomBag(namespace, true).SetBool("isAdmin", true)
	return kkl, admin
}

func TestMatchCoreAttributes(t *testing.T) {
	e := Evaluator{UserNamespace: namespace}
	kkl, admin := sampleUsers()

	t.Run("UserNameIsExact", func(t *testing.T) {
		assert.True(t, e.Match(Eq("userName", "kkl"), kkl))
		assert.False(t, e.Match(Eq("userName", "kkl"), admin))
		assert.False(t, e.Match(Eq("userName", "kk"), kkl), "no containment")
		assert.False(t, e.Match(Eq("userName", "KKL"), kkl), "case sensitive value")
		assert.True(t, e.Match(Eq("USERNAME", "kkl"), kkl), "attribute names ignore case")
	})
	t.Run("ID", func(t *testing.T) {
		assert.True(t, e.Match(Eq("id", "102"), admin))
		assert.False(t, e.Match(Eq("id", "10"), admin))
	})
	t.Run("CompoundName", func(t *testing.T) {
		assert.True(t, e.Match(Eq("name.familyName", "Lei"), kkl))
		assert.True(t, e.Match(Eq("name.givenName", "Barbara"), admin))
		assert.False(t, e.Match(Eq("name.formatted", "Karmen Lei"), kkl))
		assert.False(t, e.Match(Eq("name", "Lei"), kkl))
		noName := kkl.Clone()
		noName.Name = nil
		assert.False(t, e.Match(Eq("name.familyName", "Lei"), noName))
	})
	t.Run("CoreSchemaPrefixIsIgnored", func(t *testing.T) {
		f := Equality{Path: AttributePath{Schema: models.CoreUserSchema, Name: "userName"}, Value: "kkl"}
		assert.True(t, e.Match(f, kkl))
	})
	t.Run("Unrecognized", func(t *testing.T) {
		f := Eq("nickName", "kkl")
		assert.False(t, e.Match(f, kkl))
		assert.False(t, e.Supported(f))
		assert.False(t, e.Match(nil, kkl))
	})
}

func TestMatchEmail(t *testing.T) {
	e := Evaluator{UserNamespace: namespace}
	kkl, admin := sampleUsers()
	kkl.Emails = append(kkl.Emails, models.Email{Value: "karmen@home.example", Type: "home"})

	assert.True(t, e.Match(Eq("emails", "KLEI@example.com"), kkl))
	assert.True(t, e.Match(Eq("emails.value", "karmen@home.example"), kkl))
	assert.True(t, e.Match(Eq("email", "klei@example.com"), kkl))
	assert.False(t, e.Match(Eq("emails", "klei@example.com"), admin))
	assert.False(t, e.Match(Eq("emails.type", "work"), kkl))

	or := AnyOf(Eq("email", "klei@example.com"), Eq("email", "bjensen@example.com"))
	assert.True(t, e.Match(or, kkl))
	assert.True(t, e.Match(or, admin))
	assert.True(t, e.Supported(or))
	assert.False(t, e.Match(AnyOf(), kkl))
	assert.True(t, e.Match(&or, admin))
}

func TestMatchCustom(t *testing.T) {
	e := Evaluator{UserNamespace: namespace}
	kkl, admin := sampleUsers()
	custom := func(name, sub, value string) Equality {
		return Equality{Path: AttributePath{Schema: namespace, Name: name, SubAttribute: sub}, Value: value}
	}

	assert.True(t, e.Match(custom("isAdmin", "", "true"), admin))
	assert.True(t, e.Match(custom("isAdmin", "", "FALSE"), kkl), "leaf text ignores case")
	assert.True(t, e.Match(custom("departmentName", "", "cloud service"), kkl))
	assert.True(t, e.Match(custom("level", "", "3"), kkl))
	assert.False(t, e.Match(custom("city", "", "Oslo"), kkl), "nested fields need the parent")
	assert.True(t, e.Match(custom("address", "city", "oslo"), kkl))
	assert.False(t, e.Match(custom("address", "", "Oslo"), kkl), "bags are not leaves")
	assert.False(t, e.Match(custom("departmentName", "", "Cloud"), kkl))
	assert.False(t, e.Match(custom("departmentName", "", "Cloud Service"), admin), "absent field")

	upper := custom("isAdmin", "", "true")
	upper.Path.Schema = "URN:OKTA:ONPREM_APP:1.0:USER:CUSTOM"
	assert.True(t, e.Match(upper, admin))

	other := custom("isAdmin", "", "true")
	other.Path.Schema = "urn:okta:other_app:1.0:user:custom"
	assert.False(t, e.Match(other, admin))
	assert.False(t, e.Supported(other))

	bare := admin.Clone()
	bare.Custom = nil
	assert.False(t, e.Match(custom("isAdmin", "", "true"), bare))
}

func TestMatchIsPure(t *testing.T) {
	e := Evaluator{UserNamespace: namespace}
	kkl, _ := sampleUsers()
	before := kkl.Clone()
	for i := 0; i < 3; i++ {
		assert.True(t, e.Match(Eq("userName", "kkl"), kkl))
	}
	assert.Equal(t, before, kkl)
}
