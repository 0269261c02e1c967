// SPDX-License-Identifier: MPL-2.0

package encoder

import (
	"fmt"
	"strconv"

	"tablec/internal/model"
	"tablec/internal/registry"
)

// EncodeTable serializes one configuration table into its binary artifact
// and layout trace. On error nothing is returned: a failing table never
// emits a partial binary.
func EncodeTable(reg *registry.Registry, table *model.ConfigTable) ([]byte, string, error) {
	e := New(reg)

	var err error
	if table.IsFlat {
		err = e.encodeFlatTable(table)
	} else {
		err = e.encodeStandardTable(table)
	}
	if err != nil {
		return nil, "", fmt.Errorf("table %s: %w", table.BaseName, err)
	}
	return e.Bytes(), e.Trace(), nil
}

// encodeFlatTable writes each declared property independently in
// declaration order, with no outer count.
func (e *Encoder) encodeFlatTable(table *model.ConfigTable) error {
	e.tr.Log("Flat Table", table.TargetType, "from "+table.SourceFile)
	e.tr.EnterScope("Properties of " + table.TargetType)
	for _, row := range table.Rows {
		if err := e.EncodeValue(row.Value, row.TypeSyntax, row.Key); err != nil {
			return err
		}
	}
	e.tr.ExitScope()
	return nil
}

// encodeStandardTable writes a leading row count, then each data row in
// field-sequence order.
func (e *Encoder) encodeStandardTable(table *model.ConfigTable) error {
	e.tr.Log("Standard Table", table.TargetType,
		fmt.Sprintf("%d rows from %s", len(table.DataRows), table.SourceFile))
	e.w.Int32(int32(len(table.DataRows)))
	e.tr.EnterScope("Data Rows")
	for i, dataRow := range table.DataRows {
		e.tr.EnterScope("Row [" + strconv.Itoa(i) + "]")
		for j, fieldDef := range table.Rows {
			if j >= len(dataRow) {
				return fmt.Errorf("row %d: field %q: %w", i, fieldDef.Key, model.ErrSchemaMismatch)
			}
			if err := e.EncodeValue(dataRow[j], fieldDef.TypeSyntax, fieldDef.Key); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
		e.tr.ExitScope()
	}
	e.tr.ExitScope()
	return nil
}
