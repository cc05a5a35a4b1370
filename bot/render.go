package bot

import (
	"io"

	"github.com/valyala/fasttemplate"
)

// renderText expands {{name}} placeholders. Unknown placeholders render
// empty instead of failing; templates are operator supplied and a typo must
// not take the bot down.
func renderText(template string, vars map[string]string) string {
	t, err := fasttemplate.NewTemplate(template, "{{", "}}")
	if err != nil {
		log.Warnf("bad template %q: %v", template, err)
		return template
	}
	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		return w.Write([]byte(vars[tag]))
	})
}

// mentionTag returns "@user" unless the user opted out of mentions, in which
// case the bare name comes back. Works with or without a leading @.
func (b *Bot) mentionTag(user string) string {
	name := user
	if len(name) > 0 && name[0] == '@' {
		name = name[1:]
	}

	allowed, err := b.d.AllowedToMention(name)
	if err != nil {
		log.Warnf("mention lookup for %v failed: %v", name, err)
		return name
	}
	if allowed {
		return "@" + name
	}
	return name
}
