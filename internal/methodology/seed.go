package methodology

import (
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// SettingsTemplate renders a commented settings.yaml seed for the named
// methodology. Custom and unknown names get a minimal generic template.
func (c *Catalog) SettingsTemplate(name string) (string, error) {
	if name == Custom {
		return fallbackSeed(name), nil
	}

	m, err := c.Load(name)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return fallbackSeed(name), nil
		}
		return "", err
	}

	var buf strings.Builder
	if err := seedTmpl.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("rendering settings template: %w", err)
	}
	return buf.String(), nil
}

func yamlList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

var seedTmpl = template.Must(template.New("settings").
	Funcs(template.FuncMap{"yamlList": yamlList}).
	Parse(`# vaultlint settings for the {{ .Name }} methodology.
# Edit freely; run 'vaultlint settings validate' after changes.

version: "1.0"
methodology: {{ .Key }}

# Frontmatter properties every note must carry.
core_properties:
{{- range .CoreProperties }}
  - {{ . }}
{{- end }}

# Note types, the folders that identify them, and per-type properties.
note_types:
{{- range .OrderedTypes }}
  {{ .Name }}:
    description: {{ printf "%q" .Description }}
    icon: {{ printf "%q" .Icon }}
    folder_hints: {{ yamlList .FolderHints }}
    properties:
      additional_required: {{ yamlList .AdditionalRequired }}
      optional: {{ yamlList .Optional }}
{{- if .Validation }}
    validation:
{{- range $key, $val := .Validation }}
      {{ $key }}: {{ $val }}
{{- end }}
{{- else }}
    validation: {}
{{- end }}
{{- end }}

validation:
  require_core_properties: true
  # Properties that may be present but empty.
  allow_empty_properties: ["tags", "collection", "related"]
  strict_types: true
  check_templates: true
  check_up_links: true
  check_inbox_no_frontmatter: true

exclude:
  # Path fragments skipped during scans.
  paths: ["+/", "x/", ".obsidian/", ".vaultlint/", ".git/"]
  files: ["Home.md", "README.md"]
  patterns: ["_*_MOC.md"]

# Issue categories that 'vaultlint validate --fix' may rewrite.
auto_fix:
  empty_types: true
  missing_properties: true
  daily_links: true
  wikilink_quotes: true
  invalid_created: true
  title_properties: true
  date_mismatches: true
  folder_renames: false

folder_structure:{{ if not .FolderStructure }} {}{{ end }}
{{- range $folder, $dest := .FolderStructure }}
  {{ $folder }}: {{ printf "%q" $dest }}
{{- end }}

up_links:{{ if not .UpLinkFolders }} {}{{ end }}
{{- range .UpLinkFolders }}
  {{ . }}: '{{ index $.UpLinks . }}'
{{- end }}
`))

func fallbackSeed(name string) string {
	return fmt.Sprintf(`# vaultlint settings.
# Customize core_properties and note_types to match your vault.

version: "1.0"
methodology: %s

core_properties:
  - type
  - up
  - created
  - daily
  - tags
  - collection
  - related

note_types: {}

validation:
  require_core_properties: true

exclude:
  paths: ["+/", "x/", ".obsidian/", ".vaultlint/", ".git/"]
`, name)
}
