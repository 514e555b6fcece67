package schema

import (
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAddress struct {
	City string `json:"city"`
	Zip  string `json:"zip,omitempty" swagger:"pattern=^[0-9]{5}$"`
}

type testUser struct {
	ID        string       `json:"id" validate:"required,uuid"`
	Name      string       `json:"name" validate:"min=1,max=64" swagger:"description=Display name,example=Alice"`
	Age       int          `json:"age,omitempty" validate:"gte=0,lt=150"`
	Role      string       `json:"role,omitempty" validate:"oneof=admin user" swagger:"default=user"`
	Address   *testAddress `json:"address,omitempty"`
	Billing   testAddress  `json:"billing"`
	CreatedAt time.Time    `json:"created_at"`
	Avatar    []byte       `json:"avatar,omitempty"`
	Labels    map[string]int
	Count     int64 `json:"count,string"`
	Secret    string `json:"-"`
	internal  string
}

type testNode struct {
	Value    string      `json:"value"`
	Children []*testNode `json:"children,omitempty"`
	Parent   *testNode   `json:"parent,omitempty"`
}

type testEmbedded struct {
	testAddress
	*testTimestamps
	Name string `json:"name"`
}

type testTimestamps struct {
	Updated time.Time `json:"updated"`
}

type testUpload struct {
	File *multipart.FileHeader `json:"file"`
}

type testExample struct {
	Name string `json:"name"`
}

func (testExample) SwaggerExample() any {
	return testExample{Name: "example"}
}

type testPage[T any] struct {
	Items []T `json:"items"`
}

func TestFromType(t *testing.T) {
	t.Run("nil value", func(t *testing.T) {
		assert.Nil(t, FromType(nil))
	})

	t.Run("struct fields", func(t *testing.T) {
		n := FromType(testUser{})
		require.Equal(t, KindObject, n.Kind)
		assert.Equal(t, "testUser", n.Flags.ClassName)

		names := make([]string, 0, len(n.Keys))
		for _, k := range n.Keys {
			names = append(names, k.Name)
		}
		assert.Equal(t, []string{"id", "name", "age", "role", "address", "billing", "created_at", "avatar", "Labels", "count"}, names)

		id := n.Child("id")
		assert.True(t, id.IsRequired())
		assert.True(t, id.HasRule("guid"))

		name := n.Child("name")
		assert.True(t, name.IsRequired())
		assert.Equal(t, "Display name", name.Flags.Description)
		assert.Equal(t, []any{"Alice"}, name.Examples)
		assert.True(t, name.HasRule("min"))
		assert.True(t, name.HasRule("max"))

		age := n.Child("age")
		assert.False(t, age.IsRequired())
		assert.True(t, age.HasRule("integer"))
		assert.True(t, age.HasRule("less"))

		role := n.Child("role")
		assert.True(t, role.Flags.Only)
		assert.Equal(t, []any{"admin", "user"}, role.Values)
		assert.Equal(t, "user", role.Flags.Default)

		assert.False(t, n.Child("address").IsRequired())
		assert.True(t, n.Child("billing").IsRequired())
		assert.Equal(t, KindDate, n.Child("created_at").Kind)
		assert.Equal(t, KindBinary, n.Child("avatar").Kind)

		labels := n.Child("Labels")
		require.Len(t, labels.Patterns, 1)
		assert.True(t, labels.Patterns[0].Node.HasRule("integer"))

		count := n.Child("count")
		assert.Equal(t, KindString, count.Kind)
	})

	t.Run("shared struct copies do not leak presence", func(t *testing.T) {
		n := FromType(testUser{})
		address := n.Child("address")
		billing := n.Child("billing")

		assert.NotSame(t, address, billing)
		assert.Equal(t, "testAddress", address.Flags.ClassName)
		assert.Equal(t, "testAddress", billing.Flags.ClassName)
		assert.False(t, address.IsRequired())
		assert.True(t, billing.IsRequired())
		assert.True(t, billing.Child("zip").HasRule("pattern"))
	})

	t.Run("recursive type yields link", func(t *testing.T) {
		n := FromType(testNode{})
		assert.Equal(t, "testNode", n.Flags.ClassName)

		children := n.Child("children")
		require.Len(t, children.Items, 1)
		assert.Equal(t, KindReference, children.Items[0].Kind)
		assert.Equal(t, "testNode", children.Items[0].Ref)

		parent := n.Child("parent")
		assert.Equal(t, KindReference, parent.Kind)
		assert.False(t, parent.IsRequired())
	})

	t.Run("embedded structs are inlined", func(t *testing.T) {
		n := FromType(testEmbedded{})
		assert.NotNil(t, n.Child("city"))
		assert.True(t, n.Child("city").IsRequired())
		assert.False(t, n.Child("updated").IsRequired())
		assert.NotNil(t, n.Child("name"))
	})

	t.Run("file header", func(t *testing.T) {
		n := FromType(testUpload{})
		assert.True(t, n.Child("file").IsFile())
	})

	t.Run("exampler", func(t *testing.T) {
		n := FromType(testExample{})
		assert.Equal(t, []any{testExample{Name: "example"}}, n.Examples)
	})

	t.Run("generic names are sanitized", func(t *testing.T) {
		n := FromType(testPage[testAddress]{})
		assert.Equal(t, "testPagetestAddress", n.Flags.ClassName)
	})

	t.Run("slices and scalars", func(t *testing.T) {
		n := FromType([]testAddress{})
		assert.Equal(t, KindArray, n.Kind)
		require.Len(t, n.Items, 1)
		assert.Equal(t, KindObject, n.Items[0].Kind)

		assert.Equal(t, KindNumber, FromType(1.5).Kind)
		assert.Equal(t, KindBoolean, FromType(true).Kind)

		fixed := FromType([3]int{})
		assert.True(t, fixed.HasRule("length"))
	})
}

func TestSanitizeTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "User"},
		{"Page[User]", "PageUser"},
		{"Page[[]User]", "PageUserList"},
		{"Page[github.com/acme/models.User]", "PageUser"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTypeName(tt.in))
		})
	}
}
