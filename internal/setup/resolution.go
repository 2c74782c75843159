package setup

// Resolution is what to do about a credential that may already exist.
//
//	[ABSENT]  --Generate--> [PRESENT-FRESH]
//	[PRESENT] --Reuse-->    [PRESENT-FRESH]
//	[PRESENT] --Replace-->  backup --> [ABSENT] --Generate--> [PRESENT-FRESH]
type Resolution int

const (
	Generate Resolution = iota
	Reuse
	Replace
)

func (r Resolution) String() string {
	switch r {
	case Generate:
		return "generate"
	case Reuse:
		return "reuse"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}
