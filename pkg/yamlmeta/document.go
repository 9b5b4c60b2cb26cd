// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package yamlmeta

// IsEmpty reports documents holding nothing but null.
func (d *Document) IsEmpty() bool {
	return d.Root == nil || (d.Root.Kind == NullKind && len(d.Root.Tag) == 0)
}

func (d *Document) AsInterface() interface{} {
	if d.Root == nil {
		return nil
	}
	return d.Root.AsGo()
}
