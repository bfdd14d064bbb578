package core

// Site is a dense, internal identifier for a lattice site within a single
// run. It is strictly 32-bit, allowing for max 4 Billion sites per lattice.
// Used for all hot-path structures (neighbor windows, bitsets, rate trees).
type Site uint32

// MaxSite is the maximum possible value for a Site.
const MaxSite = ^Site(0)

// TypeID identifies the occupation type of a single site. It is strictly
// 8-bit so a full lattice state packs into one byte per site.
type TypeID uint8

// WildcardType matches any occupation when used in a process pattern and
// leaves a site untouched when used in a process update.
const WildcardType = TypeID(0xFF)

// MaxTypeID is the largest assignable occupation type. The value above it
// is reserved for WildcardType.
const MaxTypeID = TypeID(0xFE)

// ProcessID is a dense identifier for an elementary process within a
// process table.
type ProcessID uint16

// MaxProcessID is the maximum possible value for a ProcessID.
const MaxProcessID = ^ProcessID(0)

// SiteWrite records one occupation write to a single site.
type SiteWrite struct {
	Site Site
	Type TypeID
}
