package theme

import "github.com/charmbracelet/lipgloss"

var (
	BaseBg       = lipgloss.Color("#11111b")
	SurfaceBg    = lipgloss.Color("#313244")
	Accent       = lipgloss.Color("#cba6f7")
	Accent2      = lipgloss.Color("#89b4fa")
	Teal         = lipgloss.Color("#94e2d5")
	SuccessColor = lipgloss.Color("#a6e3a1")
	WarnColor    = lipgloss.Color("#f9e2af")
	ErrorColor   = lipgloss.Color("#f38ba8")
	TextColor    = lipgloss.Color("#cdd6f4")
	SubTextColor = lipgloss.Color("#a6adc8")
	DimColor     = lipgloss.Color("#6c7086")
	OverlayColor = lipgloss.Color("#45475a")
)

const (
	GlyphCollapsed = "▸"
	GlyphExpanded  = "▾"
	GlyphLeaf      = "·"
	GlyphAttached  = "●"
	GlyphDetached  = "○"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
	SectionStyle = lipgloss.NewStyle().
			Foreground(Accent2).
			Bold(true)
	TextStyle = lipgloss.NewStyle().
			Foreground(TextColor)
	SubTextStyle = lipgloss.NewStyle().
			Foreground(SubTextColor)
	DimStyle = lipgloss.NewStyle().
			Foreground(DimColor)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)
	WarnStyle = lipgloss.NewStyle().
			Foreground(WarnColor)
	KeyStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)
	BranchStyle = lipgloss.NewStyle().
			Foreground(SubTextColor)
	// ActiveLeafStyle marks a leaf whose sessions exist and at least one
	// of them is attached.
	ActiveLeafStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)
	SelectedStyle = lipgloss.NewStyle().
			Background(SurfaceBg).
			Foreground(Teal)
	SelectedActiveStyle = lipgloss.NewStyle().
				Background(SurfaceBg).
				Foreground(SuccessColor).
				Bold(true)
	PaneBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(OverlayColor)
	PaneFocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(Accent)
	SeparatorStyle = lipgloss.NewStyle().
			Foreground(OverlayColor)
	NoResultsStyle = lipgloss.NewStyle().
			Foreground(DimColor).
			Italic(true)
)
