package keys

// HelpCategory organizes host keys by function
type HelpCategory string

const (
	HelpCategoryScene      HelpCategory = "Scene"
	HelpCategoryShortcuts  HelpCategory = "Shortcuts"
	HelpCategoryEditor     HelpCategory = "Editor"
	HelpCategoryNavigation HelpCategory = "Navigation"
	HelpCategoryOther      HelpCategory = "Other"
	HelpCategoryUncategory HelpCategory = "Uncategorized" // For keys without categories
)

// KeyHelpInfo adds extended help information to key bindings
type KeyHelpInfo struct {
	Description string       // Extended description for help text
	Category    HelpCategory // Category for organizing in help screens
}

// KeyHelpMap maps KeyNames to their help information
var KeyHelpMap = map[KeyName]KeyHelpInfo{
	KeyEnter:     {Description: "Click the widget under the cursor, or edit the selected shortcut", Category: HelpCategoryScene},
	KeyHighlight: {Description: "Toggle highlight mode: enter then adds a shortcut to the highlighted widget", Category: HelpCategoryScene},
	KeyNew:       {Description: "Add or edit the shortcut of the widget under the cursor", Category: HelpCategoryScene},

	KeyTab:      {Description: "Switch between the scene and the shortcut list", Category: HelpCategoryShortcuts},
	KeyDelete:   {Description: "Delete the selected shortcut", Category: HelpCategoryShortcuts},
	KeyReload:   {Description: "Reload shortcuts from disk", Category: HelpCategoryShortcuts},
	KeySearch:   {Description: "Filter shortcuts by name", Category: HelpCategoryShortcuts},
	KeyRebind:   {Description: "Capture a new key for the selected shortcut", Category: HelpCategoryShortcuts},
	KeyEditYAML: {Description: "Edit every shortcut at once as YAML", Category: HelpCategoryShortcuts},

	KeyNextField: {Description: "Focus the next editor field", Category: HelpCategoryEditor},
	KeyPrevField: {Description: "Focus the previous editor field", Category: HelpCategoryEditor},
	KeyCopyPath:  {Description: "Copy the widget path to the clipboard", Category: HelpCategoryEditor},

	KeyUp:   {Description: "Move up (Vim j/k keys supported)", Category: HelpCategoryNavigation},
	KeyDown: {Description: "Move down (Vim j/k keys supported)", Category: HelpCategoryNavigation},

	KeyEsc:  {Description: "Cancel the current mode or dialog", Category: HelpCategoryOther},
	KeyQuit: {Description: "Quit the application", Category: HelpCategoryOther},
	KeyHelp: {Description: "Show help screen", Category: HelpCategoryOther},
}

// categoryOrder is the order categories appear on the help screen.
var categoryOrder = []HelpCategory{
	HelpCategoryScene,
	HelpCategoryShortcuts,
	HelpCategoryEditor,
	HelpCategoryNavigation,
	HelpCategoryOther,
	HelpCategoryUncategory,
}

// GetKeyHelp returns the help information for a key
func GetKeyHelp(keyName KeyName) KeyHelpInfo {
	info, exists := KeyHelpMap[keyName]
	if !exists {
		return KeyHelpInfo{
			Description: "No description",
			Category:    HelpCategoryUncategory,
		}
	}
	return info
}

// GetKeysInCategory returns the keys in a category in declaration order
func GetKeysInCategory(category HelpCategory) []KeyName {
	var keys []KeyName
	for k := KeyUp; k <= KeyCopyPath; k++ {
		if GetKeyHelp(k).Category == category {
			keys = append(keys, k)
		}
	}
	return keys
}

// GetAllCategories returns the categories that have at least one key, in
// display order
func GetAllCategories() []HelpCategory {
	var categories []HelpCategory
	for _, category := range categoryOrder {
		if len(GetKeysInCategory(category)) > 0 {
			categories = append(categories, category)
		}
	}
	return categories
}
