package view

// Form-level UI hints set by the builder. Hints ending in "Key" carry message
// keys that render.LocalizeFormModel resolves into the hint without the suffix.
const (
	HintView          = "layout.view"
	HintStep          = "layout.step"
	HintTitleKey      = "layout.titleKey"
	HintTitle         = "layout.title"
	HintSubtitleKey   = "layout.subtitleKey"
	HintSubtitle      = "layout.subtitle"
	HintBrandName     = "brand.name"
	HintBrandIcon     = "brand.icon"
	HintHomeHref      = "nav.homeHref"
	HintHomeLabelKey  = "nav.homeLabelKey"
	HintHomeLabel     = "nav.homeLabel"
	HintSubmitAction  = "submit.action"
	HintSubmitKey     = "submit.labelKey"
	HintSubmitLabel   = "submit.label"
	HintSubmitOff     = "submit.disabled"
	HintFooterNoteKey = "footer.noteKey"
	HintFooterNote    = "footer.note"
	HintFooterIcon    = "footer.icon"
	HintFooterLinkKey = "footer.linkKey"
	HintFooterLink    = "footer.link"
	HintFooterHref    = "footer.linkHref"
	HintCopyrightKey  = "footer.copyrightKey"
	HintCopyright     = "footer.copyright"
	HintEventsHref    = "events.href"
)

// Field-level UI hints.
const (
	FieldHintAutocomplete = "autocomplete"
	FieldHintLinkKey      = "linkKey"
	FieldHintLink         = "link"
	FieldHintLinkHref     = "linkHref"
	FieldHintSecret       = "secret"
	FieldHintGroup        = "group"
)

// ViewComplete is the layout.view value of the confirmation model.
const ViewComplete = "complete"
