package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// MaxReviewDates is the number of review dates kept per item
const MaxReviewDates = 3

// DateLayout is the format of review dates in the ledger
const DateLayout = "2006-01-02"

// ItemRef identifies a note by its folder and base name
type ItemRef struct {
	Folder string
	Name   string
}

// Link returns the folder-relative note link, e.g. "graphs/dijkstra.md"
func (r ItemRef) Link(ext string) string {
	return path.Join(r.Folder, r.Name+ext)
}

func (r ItemRef) String() string {
	return r.Folder + "/" + r.Name
}

// ParseLink resolves a "folder/name.ext" link back into an ItemRef.
// Links without a folder component are rejected.
func ParseLink(link, ext string) (ItemRef, error) {
	idx := strings.LastIndex(link, "/")
	if idx <= 0 || idx == len(link)-1 {
		return ItemRef{}, fmt.Errorf("link %q has no folder", link)
	}
	name := link[idx+1:]
	if ext != "" {
		name = strings.TrimSuffix(name, ext)
	} else {
		name = strings.TrimSuffix(name, path.Ext(name))
	}
	return ItemRef{Folder: link[:idx], Name: name}, nil
}

// Record holds the review history of one item.
// Tracked is false for items that never appeared in the ledger.
type Record struct {
	Mastery int
	Dates   []string
	Tracked bool
}

// IsNew reports whether the item has no ledger history
func (r Record) IsNew() bool {
	return !r.Tracked
}

// Reviewed returns a copy of the record after a review on date:
// mastery goes up by one and date becomes the most recent entry.
func (r Record) Reviewed(date string) Record {
	dates := make([]string, 0, MaxReviewDates)
	dates = append(dates, date)
	for _, d := range r.Dates {
		if len(dates) == MaxReviewDates {
			break
		}
		dates = append(dates, d)
	}
	return Record{
		Mastery: r.Mastery + 1,
		Dates:   dates,
		Tracked: true,
	}
}

// ProgressMap maps folder -> item name -> record
type ProgressMap map[string]map[string]Record

// NewProgressMap builds an empty-record map from a scanned collection
func NewProgressMap(collection map[string][]string) ProgressMap {
	pm := make(ProgressMap, len(collection))
	for folder, names := range collection {
		if len(names) == 0 {
			continue
		}
		items := make(map[string]Record, len(names))
		for _, name := range names {
			items[name] = Record{}
		}
		pm[folder] = items
	}
	return pm
}

// Has reports whether ref exists in the map
func (pm ProgressMap) Has(ref ItemRef) bool {
	items, ok := pm[ref.Folder]
	if !ok {
		return false
	}
	_, ok = items[ref.Name]
	return ok
}

// Get returns the record for ref
func (pm ProgressMap) Get(ref ItemRef) (Record, bool) {
	items, ok := pm[ref.Folder]
	if !ok {
		return Record{}, false
	}
	rec, ok := items[ref.Name]
	return rec, ok
}

// Update replaces the record of an existing item. Unknown refs are ignored
// so stale ledger rows cannot resurrect deleted notes.
func (pm ProgressMap) Update(ref ItemRef, rec Record) bool {
	items, ok := pm[ref.Folder]
	if !ok {
		return false
	}
	if _, ok := items[ref.Name]; !ok {
		return false
	}
	items[ref.Name] = rec
	return true
}

// Review applies a review on date to ref
func (pm ProgressMap) Review(ref ItemRef, date string) bool {
	rec, ok := pm.Get(ref)
	if !ok {
		return false
	}
	return pm.Update(ref, rec.Reviewed(date))
}

// Len returns the total number of items
func (pm ProgressMap) Len() int {
	n := 0
	for _, items := range pm {
		n += len(items)
	}
	return n
}

// Folders returns the folder names in lexicographic order
func (pm ProgressMap) Folders() []string {
	folders := make([]string, 0, len(pm))
	for folder := range pm {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

// Names returns the item names of folder in lexicographic order
func (pm ProgressMap) Names(folder string) []string {
	items := pm[folder]
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Refs returns every item sorted by folder then name
func (pm ProgressMap) Refs() []ItemRef {
	refs := make([]ItemRef, 0, pm.Len())
	for _, folder := range pm.Folders() {
		for _, name := range pm.Names(folder) {
			refs = append(refs, ItemRef{Folder: folder, Name: name})
		}
	}
	return refs
}

// NewItems returns the items without ledger history, sorted
func (pm ProgressMap) NewItems() []ItemRef {
	var refs []ItemRef
	for _, ref := range pm.Refs() {
		if pm[ref.Folder][ref.Name].IsNew() {
			refs = append(refs, ref)
		}
	}
	return refs
}
