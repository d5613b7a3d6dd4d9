// Package input binds keys to console commands.
//
// Key specifications accept the usual notations:
//
//	"q", "`", "F1"          single keys and key names
//	"Ctrl+O", "Alt+Enter"   modifier+key
//	"<C-o>", "<A-CR>"       Vim-style
//
// A Router subscribes to events.Key and publishes Action for every key
// found in its Keymap. Keys captured by a UI layer never reach it.
package input
