/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

// A Catalog provides access to shared symbol tables by name and version. A
// reader consults its catalog when the stream imports a shared table.
type Catalog interface {
	// FindExact returns the table with exactly the given name and version,
	// or nil.
	FindExact(name string, version int) SharedSymbolTable
	// FindLatest returns the highest-version table with the given name,
	// or nil.
	FindLatest(name string) SharedSymbolTable
}

// A MutableCatalog is a Catalog that tables can be registered into. It is
// not safe to Add concurrently with lookups.
type MutableCatalog interface {
	Catalog

	// Add registers a shared symbol table with this catalog.
	Add(sst SharedSymbolTable)
}

// A basicCatalog holds the versions of each named table in memory.
type basicCatalog struct {
	tables map[string][]SharedSymbolTable
}

// NewCatalog creates a new catalog containing the given symbol tables.
func NewCatalog(ssts ...SharedSymbolTable) MutableCatalog {
	cat := &basicCatalog{tables: map[string][]SharedSymbolTable{}}
	for _, sst := range ssts {
		cat.Add(sst)
	}
	return cat
}

func (c *basicCatalog) Add(sst SharedSymbolTable) {
	c.tables[sst.Name()] = append(c.tables[sst.Name()], sst)
}

func (c *basicCatalog) FindExact(name string, version int) SharedSymbolTable {
	for _, sst := range c.tables[name] {
		if sst.Version() == version {
			return sst
		}
	}
	return nil
}

func (c *basicCatalog) FindLatest(name string) SharedSymbolTable {
	var best SharedSymbolTable
	for _, sst := range c.tables[name] {
		if best == nil || sst.Version() > best.Version() {
			best = sst
		}
	}
	return best
}

// findImport resolves an import descriptor against a catalog: an exact
// match if one exists, else the best (highest-version) table with that
// name. A version of zero always takes the best match.
func findImport(cat Catalog, name string, version int) SharedSymbolTable {
	if cat == nil {
		return nil
	}
	if version > 0 {
		if sst := cat.FindExact(name, version); sst != nil {
			return sst
		}
	}
	return cat.FindLatest(name)
}
