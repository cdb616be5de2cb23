// Package cell provides the observable value slot used by the binding engine.
//
// A Cell holds one value and a list of subscribers. Writing a new value
// notifies every subscriber synchronously, in subscription order, before Set
// returns:
//
//	c := cell.Of("initial")
//	stop := c.On(func(v string) { fmt.Println("now", v) })
//	c.Set("changed") // prints "now changed"
//	stop()
//
// A cell created with New starts uninitialized; its first Set always
// notifies, even when the value equals the zero value. Later writes notify
// only when the value changes.
package cell
