// Package markdown renders content bodies with goldmark and reads the YAML
// front matter that identifies the page or post a file belongs to.
package markdown
