
// Package fuzztests houses Go fuzz harnesses for the front-end
// (source -> lexer -> parser, and the CODE block assembler). Its goal is to
// smoke test robustness and guard against panics or hangs on arbitrary
// inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и ассемблер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/asm, internal/diag.

package fuzztests
