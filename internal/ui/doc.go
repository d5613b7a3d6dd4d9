// Package ui provides overlay widgets that take input away from the rest of
// the application while they are active.
//
// A Layer owns a bus subscriber ID and, after every raw platform event,
// asks its widget whether it wants the keyboard or the mouse. When it does,
// the layer captures the matching input events so only the widget's
// handlers see them; when it stops wanting them, the capture is released
// and input fans out normally again.
package ui
