package engine_util

/*
An engine is a low-level system for storing key/value pairs locally, without any transaction support. This package
contains code for interacting with such engines.

CF means 'column family'. In short, a column family is a key namespace. Every key a table writes is stored in the
column family of the cell, under a key built from the table, the row and the qualifier (see keys.go). Writes can be
made atomic across column families through a WriteBatch.

engine_util includes the following parts:

* util: reading and writing a single CF key, and deleting every key under a prefix.
* write_batch: code to batch writes into a single, atomic 'transaction'.
* cf_iterator: code to iterate over a whole column family in badger.
* keys: the storage key layout of table cells.
*/
