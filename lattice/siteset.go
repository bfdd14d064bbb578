package lattice

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmcgo/core"
)

// SiteSet is a compressed set of site indices. It wraps a 32-bit Roaring
// Bitmap and is used for neighbor unions and dirty site tracking. Not safe
// for concurrent use.
type SiteSet struct {
	rb *roaring.Bitmap
}

// NewSiteSet creates a new empty site set.
func NewSiteSet() *SiteSet {
	return &SiteSet{
		rb: roaring.New(),
	}
}

// Add adds a site to the set.
func (s *SiteSet) Add(site core.Site) {
	s.rb.Add(uint32(site))
}

// Remove removes a site from the set.
func (s *SiteSet) Remove(site core.Site) {
	s.rb.Remove(uint32(site))
}

// Contains checks if a site is in the set.
func (s *SiteSet) Contains(site core.Site) bool {
	return s.rb.Contains(uint32(site))
}

// IsEmpty returns true if the set is empty.
func (s *SiteSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of sites in the set.
func (s *SiteSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// Clone returns a deep copy of the set.
func (s *SiteSet) Clone() *SiteSet {
	return &SiteSet{
		rb: s.rb.Clone(),
	}
}

// Iterator returns an iterator over the set in ascending order.
func (s *SiteSet) Iterator() iter.Seq[core.Site] {
	return func(yield func(core.Site) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(core.Site(it.Next())) {
				return
			}
		}
	}
}

// AppendTo appends all sites in ascending order to dst and returns the
// extended slice.
func (s *SiteSet) AppendTo(dst []core.Site) []core.Site {
	it := s.rb.Iterator()
	for it.HasNext() {
		dst = append(dst, core.Site(it.Next()))
	}
	return dst
}

// Or merges other into the set.
func (s *SiteSet) Or(other *SiteSet) {
	s.rb.Or(other.rb)
}

// Clear removes all sites from the set.
func (s *SiteSet) Clear() {
	s.rb.Clear()
}

// GetSizeInBytes returns the size of the set in bytes.
func (s *SiteSet) GetSizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
