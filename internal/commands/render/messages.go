package rendercmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const renderContentMessageType = "pagelist.content.render"

// ResultCallback receives the rendered body.
type ResultCallback func(html string)

// RenderContentCommand renders Body through Markdown (when enabled) and the
// the_content filters. ContentID or Slug name the content the body belongs
// to; lists exclude it and the bypass meta is read from it.
type RenderContentCommand struct {
	Body      string         `json:"body"`
	ContentID uuid.UUID      `json:"content_id,omitempty"`
	Slug      string         `json:"slug,omitempty"`
	Locale    string         `json:"locale,omitempty"`
	Markdown  bool           `json:"markdown,omitempty"`
	Result    ResultCallback `json:"-"`
}

// Type implements command.Message.
func (RenderContentCommand) Type() string { return renderContentMessageType }

func (cmd RenderContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Body, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("pagelist.content.render.body_required", "body is required")
			}
			return nil
		})),
		validation.Field(&cmd.Slug, validation.Length(0, 200)),
		validation.Field(&cmd.Locale, validation.Length(0, 35)),
	)
}
