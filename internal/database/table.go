// Copyright 2023 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package database

type table struct {
	prefix   []byte
	database Database
}

var _ Table = (*table)(nil)

// NewTable returns a table prefixing every key with the given prefix
// before delegating to the database.
func NewTable(database Database, prefix string) Table {
	return &table{
		prefix:   []byte(prefix),
		database: database,
	}
}

func (t *table) Get(key []byte) (value []byte, err error) {
	return t.database.Get(MakePrefixedKey(t.prefix, key))
}

func (t *table) Set(key, value []byte) (err error) {
	return t.database.Set(MakePrefixedKey(t.prefix, key), value)
}

func (t *table) Delete(key []byte) (err error) {
	return t.database.Delete(MakePrefixedKey(t.prefix, key))
}

func (t *table) NewWriteBatch() WriteBatch {
	return &tableWriteBatch{
		prefix:     t.prefix,
		writeBatch: t.database.NewWriteBatch(),
	}
}

type tableWriteBatch struct {
	prefix     []byte
	writeBatch WriteBatch
}

func (wb *tableWriteBatch) Set(key, value []byte) error {
	return wb.writeBatch.Set(MakePrefixedKey(wb.prefix, key), value)
}

func (wb *tableWriteBatch) Delete(key []byte) error {
	return wb.writeBatch.Delete(MakePrefixedKey(wb.prefix, key))
}

func (wb *tableWriteBatch) Flush() error {
	return wb.writeBatch.Flush()
}

func (wb *tableWriteBatch) Cancel() {
	wb.writeBatch.Cancel()
}

// MakePrefixedKey returns a new slice holding the prefix followed by the key.
func MakePrefixedKey(prefix, key []byte) (prefixedKey []byte) {
	// WARNING: Do not use:
	// return append(prefix, key...)
	// since the prefix might have a capacity larger than its length,
	// and that would produce data corruption on prefixed keys pointing
	// to the prefix underlying memory array.
	prefixedKey = make([]byte, 0, len(prefix)+len(key))
	prefixedKey = append(prefixedKey, prefix...)
	prefixedKey = append(prefixedKey, key...)
	return prefixedKey
}
