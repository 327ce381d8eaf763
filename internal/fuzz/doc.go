// Package fuzztests houses Go fuzz harnesses for the front of the skarn
// pipeline (source -> lexer -> parser). The goal is robustness: no panic,
// no hang and no allocator explosion on arbitrary bytes.
//
// Назначение: грузить байты в FileSet и прогонять их через лексер и
// парсер с включённым восстановлением после ошибок.
//
// Не делает: генерацию корпусов, запись файлов, запуск CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/diag, internal/ast, internal/token.

package fuzztests
