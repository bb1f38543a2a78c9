package viewer

import "fmt"

// NavKey is one navigation-assist key: a stable name intercepted at the
// session's input scope and the numeric key code understood by the rendered
// content's own key handling.
type NavKey struct {
	Name string
	Code int
}

// NavigationKeys is the fixed key set forwarded while navigation assist is
// enabled. Codes follow the rendered deck's keydown handling.
var NavigationKeys = []NavKey{
	{Name: "next", Code: 78},
	{Name: "previous", Code: 80},
	{Name: "left", Code: 37},
	{Name: "right", Code: 39},
	{Name: "up", Code: 38},
	{Name: "down", Code: 40},
	{Name: "first", Code: 36},
	{Name: "last", Code: 35},
	{Name: "pause", Code: 66},
	{Name: "fullscreen", Code: 70},
	{Name: "overview", Code: 79},
}

// KeyCode returns the numeric code for a navigation key name.
func KeyCode(name string) (int, bool) {
	for _, k := range NavigationKeys {
		if k.Name == name {
			return k.Code, true
		}
	}
	return 0, false
}

// triggerScript is the scripted key-trigger call forwarded into the
// rendered view for one navigation key.
func triggerScript(code int) string {
	return fmt.Sprintf("(function(){var e=new KeyboardEvent('keydown',{bubbles:true});Object.defineProperty(e,'keyCode',{get:function(){return %d;}});document.dispatchEvent(e);})();", code)
}
