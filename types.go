package md2html

// DefaultVersion is used when Input.Version is empty.
const DefaultVersion = "1.0.0"

// Project logos used when no branding is configured.
const (
	DefaultPrimaryLogo   = "https://raw.githubusercontent.com/MirandaDev00/Bot_Documentacao_Eorbis/main/Bot_/Assets/Logo%20eorbis.png"
	DefaultSecondaryLogo = "https://raw.githubusercontent.com/MirandaDev00/Bot_Documentacao_Eorbis/main/Bot_/Assets/Logo%20metaprime.png"
)

// Branding holds the logo references placed in the header and footer.
// Values are used verbatim as img src: URLs, relative or absolute paths.
type Branding struct {
	PrimaryLogo   string // header logo
	SecondaryLogo string // footer logo
}

// DefaultBranding returns the project logos.
func DefaultBranding() *Branding {
	return &Branding{
		PrimaryLogo:   DefaultPrimaryLogo,
		SecondaryLogo: DefaultSecondaryLogo,
	}
}

// withDefaults returns a copy of b where empty logos use the defaults.
// A nil receiver yields DefaultBranding.
func (b *Branding) withDefaults() Branding {
	out := *DefaultBranding()
	if b == nil {
		return out
	}
	if b.PrimaryLogo != "" {
		out.PrimaryLogo = b.PrimaryLogo
	}
	if b.SecondaryLogo != "" {
		out.SecondaryLogo = b.SecondaryLogo
	}
	return out
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string    // Markdown content (required)
	SourceDir string    // Directory of the source file, resolves local images for PDF
	Version   string    // Banner version (empty = DefaultVersion)
	Branding  *Branding // Logos (nil = DefaultBranding)
	PDF       bool      // Also render a PDF via headless Chrome
}

// ConvertResult contains the output of a conversion.
type ConvertResult struct {
	HTML []byte // Restyled HTML document
	PDF  []byte // Only set when Input.PDF is true
}
