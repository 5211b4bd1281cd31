// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

// Catalog is the ordered catalog of class names for a dataset.
// Class ids are 0-based and assigned in first-seen order across
// the provided root paths, so they are stable for the lifetime
// of the catalog. Multiple roots may contribute folders to the
// same class. The catalog is built once during [Build] and is
// immutable afterward.
type Catalog struct {

	// Names are the class names in id order.
	Names []string

	// IDs maps a class name to its id.
	IDs map[string]int

	// Folders are the on-disk folder paths contributing to each
	// class, in id order, one or more per class.
	Folders [][]string
}

// NewCatalog returns a new empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{IDs: make(map[string]int)}
}

// Add registers the given folder path under the given class name,
// adding the class if the name has not been seen yet (first
// occurrence wins the id), and returns the class id.
func (ct *Catalog) Add(name, folder string) int {
	id, ok := ct.IDs[name]
	if !ok {
		id = len(ct.Names)
		ct.IDs[name] = id
		ct.Names = append(ct.Names, name)
		ct.Folders = append(ct.Folders, nil)
	}
	ct.Folders[id] = append(ct.Folders[id], folder)
	return id
}

// NumClasses returns the number of classes in the catalog.
func (ct *Catalog) NumClasses() int { return len(ct.Names) }

// Name returns the class name for the given id.
// It panics if the id is out of range.
func (ct *Catalog) Name(id int) string { return ct.Names[id] }

// ID returns the class id for the given name,
// and false if the name is not in the catalog.
func (ct *Catalog) ID(name string) (int, bool) {
	id, ok := ct.IDs[name]
	return id, ok
}
