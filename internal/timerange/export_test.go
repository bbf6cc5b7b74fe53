package timerange

import "time"

// SetNowFunc replaces the clock used for open ranges and relative
// periods. The returned function restores the real clock.
func SetNowFunc(f func() time.Time) func() {
	old := nowFunc
	nowFunc = f
	return func() { nowFunc = old }
}
