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

/*
Package ion provides cursor-style readers and writers for the Ion data
format in both of its interchangeable encodings, the self-describing
binary form and the human-readable text form.

A Reader is created over an io.Reader; it sniffs the first four bytes
for a binary version marker and parses whichever encoding it finds:

	r := ion.NewReader(in)
	for r.Next() {
		// inspect r.Type(), read scalars, step in to containers
	}
	if err := r.Err(); err != nil {
		// the stream was malformed or truncated
	}

A Writer emits either encoding over an io.Writer:

	w := ion.NewTextWriter(out)
	w.WriteInt(42)
	err := w.Finish()

Symbol tables are managed transparently: readers install local symbol
tables found in the stream (consulting a Catalog for shared imports),
and writers intern symbol text and emit the resulting table ahead of
the data. Integers of any size are carried by Int; decimals are backed
by github.com/cockroachdb/apd.
*/
package ion
