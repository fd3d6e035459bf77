// Package migrations 內嵌 SQLite 資料表遷移檔
package migrations

import "embed"

// FS 編譯時內嵌的所有 SQL 遷移檔
//
//go:embed *.sql
var FS embed.FS
