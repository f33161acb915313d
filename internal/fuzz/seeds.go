package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16  // 64 KiB
)

var moduleSeeds = []string{
	"MODULE M; END M.",
	"MODULE Files IN A2; IMPORT SYSTEM, K := Kernel, Streams IN Oberon; END Files.",
	"MODULE M; CONST N* = 10; max = N * 2 - 1; TYPE P = POINTER TO RECORD x, y: INTEGER END; END M.",
	"MODULE M; VAR a: ARRAY [*, *] OF REAL; BEGIN a := a` * a; a[.., 1] := 0 END M.",
	"MODULE M; TYPE O = OBJECT VAR x: LONGINT; PROCEDURE {EXCLUSIVE} Inc; BEGIN INC(x) END Inc; BEGIN {ACTIVE} AWAIT(x > 0) END O; END M.",
	"MODULE M; PROCEDURE -Fast(x: LONGINT): LONGINT; CODE {SYSTEM.CPU_AMD64} MOV RAX, QWORD [RSP + 8] END Fast; END M.",
	"MODULE M; OPERATOR \"+\"*(a, b: V): V; BEGIN RETURN a END \"+\"; END M.",
	"MODULE M; TYPE C = CELL {Engine} (in: PORT IN; out: PORT OUT); END C; END M.",
	"MODULE M; BEGIN IF a THEN b ELSIF c THEN d ELSE e END; CASE x OF 1..3: y | 4, 5: z ELSE END END M.",
	"MODULE M; BEGIN FOR i := 0 TO 10 BY 2 DO s := s + i END; REPEAT UNTIL TRUE; LOOP EXIT END END M.",
}

var asmSeeds = []string{
	"MOV RAX, RBX\nRET",
	"{SYSTEM.CPU_AMD64} PUSH RBP\nMOV RBP, RSP\nPOP RBP\nRET",
	"loop: DEC ECX\nJNZ loop\nDB 1, 2, 3\nALIGN 4",
	"BITS 32\nMOV EAX, [EBX + 4]\nTIMES 3 NOP",
	"x EQU 10\nMOV AL, x * 2",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, seed := range moduleSeeds {
		f.Add([]byte(seed))
	}
	f.Add([]byte{})
}

func addAsmSeeds(f *testing.F) {
	for _, seed := range asmSeeds {
		f.Add([]byte(seed))
	}
	f.Add([]byte{})
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.Mod файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".Mod" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
