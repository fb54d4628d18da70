package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespace = "urn:okta:onprem_app:1.0:user:custom"

func TestUserNamespace(t *testing.T) {
	assert.Equal(t, testNamespace, UserNamespace("onprem_app", "custom"))
	assert.Equal(t, "urn:okta:mysql_app:1.0:user:custom", UserNamespace("mysql_app", "custom"))
}

func TestUserJSON(t *testing.T) {
	t.Run("CustomBagsAreTopLevel", func(t *testing.T) {
		u := User{ID: "101", UserName: "kkl", Active: true}
		u.CustomBag(testNamespace, true).SetBool("isAdmin", false)
		u.CustomBag(testNamespace, true).SetString("departmentName", "Cloud Service")
		data, err := json.Marshal(u)
		require.NoError(t, err)

		var fields map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(data, &fields))
		assert.Contains(t, fields, testNamespace)
		assert.Contains(t, fields, "schemas")
		assert.JSONEq(t, `{"isAdmin":false,"departmentName":"Cloud Service"}`, string(fields[testNamespace]))
	})
	t.Run("DecodeKeepsNumbers", func(t *testing.T) {
		raw := `{"id":"7","userName":"x","active":false,
			"urn:okta:onprem_app:1.0:user:custom":{"level":3,"ratio":0.5,"address":{"city":"Oslo"}}}`
		var u User
		require.NoError(t, json.Unmarshal([]byte(raw), &u))
		bag := u.CustomBag(testNamespace, false)
		require.NotNil(t, bag)
		level, ok := bag.GetInt("level")
		assert.True(t, ok)
		assert.Equal(t, int64(3), level)
		ratio, ok := bag.GetFloat("ratio")
		assert.True(t, ok)
		assert.Equal(t, 0.5, ratio)
		city, ok := bag.GetString("city", "address")
		assert.True(t, ok)
		assert.Equal(t, "Oslo", city)
	})
	t.Run("CoreFieldsSurvive", func(t *testing.T) {
		raw := `{"id":"9","userName":"bjensen","name":{"familyName":"Jensen","givenName":"Barbara"},
			"emails":[{"value":"bjensen@example.com","type":"work","primary":true}],"active":true}`
		var u User
		require.NoError(t, json.Unmarshal([]byte(raw), &u))
		assert.Equal(t, "bjensen", u.UserName)
		require.NotNil(t, u.Name)
		assert.Equal(t, "Jensen", u.Name.FamilyName)
		require.Len(t, u.Emails, 1)
		assert.True(t, u.Emails[0].Primary)
		assert.Nil(t, u.Custom)
	})
}

func TestUserJSONStable(t *testing.T) {
	u := User{ID: "101", UserName: "kkl", Active: true}
	for _, app := range []string{"e_app", "d_app", "c_app", "b_app", "a_app"} {
		u.CustomBag(UserNamespace(app, "custom"), true).SetString("departmentName", app)
	}
	first, err := json.Marshal(u)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := json.Marshal(u)
		require.NoError(t, err)
		require.Equal(t, string(first), string(again))
	}
	var decoded struct {
		Schemas []string `json:"schemas"`
	}
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.Equal(t, []string{
		CoreUserSchema,
		UserNamespace("a_app", "custom"),
		UserNamespace("b_app", "custom"),
		UserNamespace("c_app", "custom"),
		UserNamespace("d_app", "custom"),
		UserNamespace("e_app", "custom"),
	}, decoded.Schemas)
}

func TestUserClone(t *testing.T) {
	u := User{ID: "1", UserName: "a", Name: &Name{GivenName: "A"}, Emails: []Email{{Value: "a@x"}}}
	u.CustomBag(testNamespace, true).SetString("k", "v", "nested")
	c := u.Clone()
	c.Name.GivenName = "B"
	c.Emails[0].Value = "b@x"
	c.Custom[testNamespace].SetString("k", "w", "nested")

	assert.Equal(t, "A", u.Name.GivenName)
	assert.Equal(t, "a@x", u.Emails[0].Value)
	v, _ := u.Custom[testNamespace].GetString("k", "nested")
	assert.Equal(t, "v", v)
}

func TestGroupJSON(t *testing.T) {
	g := Group{ID: "1001", DisplayName: "firstGroup", Members: []Membership{{Value: "101", Display: "okta"}}}
	g.SetDescription("This is the first group")
	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded Group
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "This is the first group", decoded.Description())
	assert.Equal(t, g.Members, decoded.Members)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, GroupCustomSchema)
}

func TestAttributes(t *testing.T) {
	a := Attributes{}
	a.SetString("s", "x")
	a.SetBool("b", true)
	a.SetInt("i", 42, "p", "q")
	a.SetFloat("f", 1.5)

	_, ok := a.GetString("b")
	assert.False(t, ok, "type mismatch is not a hit")
	i, ok := a.GetInt("i", "p", "q")
	assert.True(t, ok)
	assert.Equal(t, int64(42), i)
	_, ok = a.GetInt("i", "p")
	assert.False(t, ok)
	_, ok = a.Lookup("missing", "nope")
	assert.False(t, ok)

	txt, ok := Text(true)
	assert.True(t, ok)
	assert.Equal(t, "true", txt)
	txt, ok = Text(json.Number("12"))
	assert.True(t, ok)
	assert.Equal(t, "12", txt)
	_, ok = Text(Attributes{})
	assert.False(t, ok)
}

func TestPasswordHookResponse(t *testing.T) {
	resp := NewPasswordHookResponse(true)
	require.Len(t, resp.Commands, 1)
	assert.Equal(t, PasswordHookAction, resp.Commands[0].Type)
	assert.Equal(t, CredentialVerified, resp.Commands[0].Value["credential"])
	assert.Equal(t, CredentialUnverified, NewPasswordHookResponse(false).Commands[0].Value["credential"])
}
