package form_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/form"
)

func TestMessageRendering(t *testing.T) {
	t.Parallel()

	t.Run("per-rule override wins over the table", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": ""})
		f.Field("name").Required("Please tell us your ${label}.")

		_, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Please tell us your name.", f.Errors()["name"][0].Message)
	})

	t.Run("service-level table override", func(t *testing.T) {
		t.Parallel()
		svc := form.NewService(form.WithMessages(form.Messages{
			"required": "${label} darf nicht leer sein.",
		}))
		f := svc.NewForm(form.Input{"email": ""})
		f.Field("email").Required().Email()

		_, err := f.Validate(context.Background())
		require.NoError(t, err)
		errs := f.Errors()["email"]
		require.Len(t, errs, 2)
		assert.Equal(t, "email darf nicht leer sein.", errs[0].Message)
		// Untouched entries keep their defaults.
		assert.Equal(t, "The email must be a valid email address.", errs[1].Message)
	})

	t.Run("missing placeholders render empty", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"name": ""})
		f.Field("name").Required("missing: [${nothing}] label: ${label}")

		_, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "missing: [] label: name", f.Errors()["name"][0].Message)
	})

	t.Run("date attribute is substituted", func(t *testing.T) {
		t.Parallel()
		f := form.New(form.Input{"startsAt": "2024-01-01"})
		f.Field("startsAt").After("2024-06-15")

		_, err := f.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "The starts at must be a date after 2024-06-15.", f.Errors()["startsAt"][0].Message)
	})

	t.Run("messages load from yaml", func(t *testing.T) {
		t.Parallel()
		data := []byte("required: \"${label} is mandatory\"\nemail: \"${label} looks wrong\"\n")
		msgs, err := form.MessagesFromYAML(data)
		require.NoError(t, err)

		svc := form.NewService(form.WithMessages(msgs))
		f := svc.NewForm(form.Input{"email": "nope"})
		f.Field("email").Email()

		_, err = f.Validate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "email looks wrong", f.Errors()["email"][0].Message)
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		t.Parallel()
		_, err := form.MessagesFromYAML([]byte("::\n\t- bad"))
		assert.Error(t, err)
	})
}

func TestLabelDerivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"camel case", "firstName", "first name"},
		{"snake case", "first_name", "first name"},
		{"kebab case", "first-name", "first name"},
		{"plain", "email", "email"},
		{"acronym run", "userID", "user id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := form.New(form.Input{})
			assert.Equal(t, tt.want, f.Field(tt.field).Label())
		})
	}
}
