package highlight

// The C language state table, grounded in original_source/src/syntax/c.h
// and src/highlight_c.h: an identifier/number/char-literal scanner run at
// the top level (StateStart), single-line and block comments, string
// literals, and a preprocessor-directive state that demonstrates a nested
// context (a string literal inside a macro, e.g. #include "foo.h") via the
// state stack.
const (
	StateStart uint8 = iota
	StateComment
	StateMultiComment
	StateString
	StatePreproc
)

var cTypes = sortedSet("char", "double", "float", "int", "long", "short", "signed", "typedef", "typeof", "unsigned", "void", "FILE")
var cTypeMods = sortedSet("auto", "const", "enum", "extern", "inline", "register", "static", "struct", "union", "volatile")
var cKeywords = sortedSet("break", "case", "continue", "default", "do", "else", "for", "goto", "if", "return", "switch", "while")

func sortedSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func cTable() Table {
	return Table{
		StateStart:        cStateStart,
		StateComment:      cStateComment,
		StateMultiComment: cStateMultiComment,
		StateString:       cStateString,
		StatePreproc:      cStatePreproc,
	}
}

func cIdentifier(ctx *Context) int {
	if !isIdentStart(ctx.S[ctx.I]) {
		return 0
	}
	n := 1
	for ctx.I+n < ctx.N && isIdentCont(ctx.S[ctx.I+n]) {
		n++
	}
	word := string(ctx.S[ctx.I : ctx.I+n])
	switch {
	case n > 3 && word[n-2] == '_' && word[n-1] == 't':
		ctx.Hi = HiType
	case cTypes[word]:
		ctx.Hi = HiType
	case cTypeMods[word]:
		ctx.Hi = HiTypeMod
	case cKeywords[word]:
		ctx.Hi = HiIdentifier
	default:
		ctx.Hi = HiNormal
	}
	return n
}

func cNumber(ctx *Context) int {
	if !isDigit(ctx.S[ctx.I]) {
		return 0
	}
	n := 1
	for ctx.I+n < ctx.N && (isIdentCont(ctx.S[ctx.I+n]) || ctx.S[ctx.I+n] == '.') {
		n++
	}
	ctx.Hi = HiNumber
	return n
}

func cCharLiteral(ctx *Context) int {
	if ctx.S[ctx.I] != '\'' {
		return 0
	}
	n := 1
	for ctx.I+n < ctx.N && ctx.S[ctx.I+n] != '\'' {
		if ctx.S[ctx.I+n] == '\\' {
			n++
		}
		n++
	}
	if ctx.I+n < ctx.N {
		n++ // closing quote
	}
	ctx.Hi = HiChar
	return n
}

// cStateStart is the top-level dispatch: identifiers/numbers/char
// literals, then string/comment/preprocessor openers, then plain bytes.
func cStateStart(ctx *Context) int {
	if n := cIdentifier(ctx); n > 0 {
		return n
	}
	if n := cNumber(ctx); n > 0 {
		return n
	}
	if n := cCharLiteral(ctx); n > 0 {
		return n
	}
	switch ctx.S[ctx.I] {
	case '"':
		ctx.Hi = HiString
		ctx.State = Push(ctx.State, StateString)
		return 1
	case '#':
		if ctx.I == 0 {
			ctx.Hi = HiPreproc
			ctx.State = Push(ctx.State, StatePreproc)
			return 1
		}
	case '(', '{', '[':
		ctx.Parens.NoteOpen(ctx.Pos, ctx.S[ctx.I])
		ctx.Hi = HiNormal
		return 1
	case ')', '}', ']':
		ctx.Parens.NoteClose(ctx.Pos, ctx.S[ctx.I])
		ctx.Hi = HiNormal
		return 1
	case '/':
		if ctx.I+1 < ctx.N && ctx.S[ctx.I+1] == '/' {
			ctx.Hi = HiComment
			ctx.State = uint64(StateStart) // "//" consumes to EOL, never continues
			return ctx.N - ctx.I
		}
		if ctx.I+1 < ctx.N && ctx.S[ctx.I+1] == '*' {
			ctx.Hi = HiComment
			ctx.State = Push(ctx.State, StateMultiComment) | FStateMulti
			return 2
		}
	}
	ctx.Hi = HiNormal
	return 1
}

// cStateComment exists for table completeness; cStateStart already
// consumes a "//" comment to end-of-line in one step, so this is only
// reached if some other state ever transitions into StateComment mid-line.
func cStateComment(ctx *Context) int {
	ctx.Hi = HiComment
	ctx.State = uint64(StateStart) // a // comment never continues past EOL
	return ctx.N - ctx.I
}

// cStateMultiComment stays active (FStateMulti set) until it sees the
// closing "*/", which pops back to whatever was nested beneath it.
func cStateMultiComment(ctx *Context) int {
	ctx.Hi = HiComment
	for n := 0; ctx.I+n < ctx.N; n++ {
		if ctx.S[ctx.I+n] == '*' && ctx.I+n+1 < ctx.N && ctx.S[ctx.I+n+1] == '/' {
			ctx.State = Pop(ctx.State)
			return n + 2
		}
	}
	ctx.State |= FStateMulti
	return ctx.N - ctx.I
}

// cStateString stays active until an unescaped closing quote, which pops
// back to whatever context the string was opened in (top level or, for
// the nested-context demonstration, a preprocessor directive).
func cStateString(ctx *Context) int {
	ctx.Hi = HiString
	for n := 0; ctx.I+n < ctx.N; n++ {
		switch ctx.S[ctx.I+n] {
		case '\\':
			n++
		case '"':
			ctx.State = Pop(ctx.State)
			return n + 1
		}
	}
	ctx.State |= FStateMulti
	return ctx.N - ctx.I
}

// cStatePreproc highlights a preprocessor directive, nesting into
// StateString on a quote and persisting to the next line only via an
// explicit trailing backslash continuation.
func cStatePreproc(ctx *Context) int {
	if ctx.S[ctx.I] == '"' {
		ctx.Hi = HiString
		ctx.State = Push(ctx.State, StateString)
		return 1
	}
	if ctx.I == ctx.N-1 && ctx.S[ctx.I] == '\\' {
		ctx.Hi = HiPreproc
		ctx.State |= FStateMulti
		return 1
	}
	ctx.Hi = HiPreproc
	return 1
}
