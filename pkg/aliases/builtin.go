package aliases

// Hyperpolyglot returns the table targeting Hyperpolyglot display names.
func Hyperpolyglot() Table {
	return New(map[string]string{
		"c sharp": "C#", "c-sharp": "C#", "csharp": "C#", "cs": "C#", "c#": "C#",
		"f sharp": "F#", "f-sharp": "F#", "fsharp": "F#", "f#": "F#",
		"objective c": "Objective-C", "objective-c": "Objective-C", "obj-c": "Objective-C",
		"objective c++": "Objective-C++", "objective-c++": "Objective-C++", "obj-c++": "Objective-C++",
		"c plus plus": "C++", "cplusplus": "C++", "cpp": "C++", "c++": "C++",
		"c language": "C", "golang": "Go",
		"tsql": "TSQL", "t-sql": "TSQL", "microsoft tsql": "TSQL",
		"pl/sql": "PLSQL", "pl-sql": "PLSQL", "plsql": "PLSQL",
		"pl/pgsql": "PLpgSQL", "plpgsql": "PLpgSQL",
		"cmd": "Batchfile", "dos batch": "Batchfile", "batch": "Batchfile",
		"powershell core": "PowerShell", "windows powershell": "PowerShell", "ps": "PowerShell",
		"z shell": "Shell", "zsh": "Shell", "bash": "Shell", "fish shell": "fish",
		"shell script": "Shell", "unix shell": "Shell", "posix shell": "Shell",
		"html5": "HTML", "html+php": "HTML+PHP", "html+erb": "HTML+ERB", "html+ecr": "HTML+ECR", "html+django": "HTML+Django",
		"scss": "SCSS", "sass": "Sass", "less": "Less", "stylus": "Stylus",
		"js": "JavaScript", "javascript": "JavaScript", "ts": "TypeScript", "tsx": "TSX", "jsx": "JSX",
		"pug": "Pug", "jade": "Pug", "handlebars": "Handlebars", "hbs": "Handlebars", "mustache": "Handlebars",
		"xml plist": "XML Property List", "plist": "XML Property List",
		"yaml": "YAML", "yml": "YAML", "toml": "TOML", "json5": "JSON5", "jsonc": "JSON with Comments",
		"cson": "CSON", "ini": "INI", "editorconfig": "EditorConfig",
		"llvm ir": "LLVM", "llvm": "LLVM",
		"nimlang": "Nim", "ocaml": "OCaml", "objective caml": "OCaml",
		"rkt": "Racket", "clj": "Clojure", "cljc": "Clojure", "cljs": "Clojure",
		"elisp": "Emacs Lisp", "emacs-lisp": "Emacs Lisp",
		"matlab": "MATLAB", "wolfram": "Mathematica", "wolfram language": "Mathematica",
		"rstats": "R", "stata": "Stata", "apl": "APL", "j language": "J",
		"vhdl": "VHDL", "verilog": "Verilog", "systemverilog": "SystemVerilog",
		"hlsl": "HLSL", "glsl": "GLSL",
		"vb": "Visual Basic .NET", "vb.net": "Visual Basic .NET", "vba": "VBA",
		"cuda": "Cuda",
		"plain text": "Text", "markdown": "Markdown", "md": "Markdown",
		"fstar": "F*",
	})
}

// Pygments returns the table targeting Pygments lexer aliases.
func Pygments() Table {
	return New(map[string]string{
		"c sharp": "csharp", "c-sharp": "csharp", "c#": "csharp",
		"f sharp": "fsharp", "f-sharp": "fsharp", "f#": "fsharp",
		"c plus plus": "cpp", "cplusplus": "cpp", "c++": "cpp", "cpp": "cpp",
		"objective c": "objective-c", "objective-c": "objective-c", "obj-c": "objective-c",
		"objective c++": "objective-c++", "objective-c++": "objective-c++", "obj-c++": "objective-c++",
		"golang": "go",
		"js": "javascript", "ts": "typescript",
		"vb.net": "vbnet", "vb": "vbnet", "visual basic": "vbnet",
		"ocaml": "ocaml", "objective caml": "ocaml",
		"shell": "bash", "shell script": "bash", "unix shell": "bash",
		"wolfram language": "mathematica", "wolfram": "mathematica",
		"rstats": "r",
		"yaml": "yaml", "yml": "yaml",
		"jsonc": "json", "json5": "json",
		"pl/sql": "plsql", "pl-sql": "plsql", "plpgsql": "postgresql",
		"powershell": "powershell",
		"vim script": "viml", "vimscript": "viml",
	})
}

// RosettaCode returns the table targeting Rosetta Code language names.
func RosettaCode() Table {
	return New(map[string]string{
		"c sharp": "c#", "c-sharp": "c#", "csharp": "c#",
		"f sharp": "f#", "f-sharp": "f#", "fsharp": "f#",
		"c plus plus": "c++", "cplusplus": "c++", "cpp": "c++",
		"objective c": "objective-c", "obj-c": "objective-c",
		"objective c++": "objective-c++", "obj-c++": "objective-c++",
		"golang": "go",
		"js": "javascript", "ts": "typescript",
		"vb.net": "visual basic .net", "vb": "visual basic .net", "visual basic": "visual basic .net",
		"objective caml": "ocaml",
		"vimscript": "vim script",
		"wolfram language": "mathematica", "wolfram": "mathematica",
		"rstats": "r",
		"yml": "yaml",
		"jsonc": "json", "json5": "json",
		"pl/sql": "plsql", "pl-sql": "plsql",
		"pl/pgsql": "plpgsql",
	})
}

// Builtin returns the built-in table for a linked source name.
func Builtin(source string) (Table, bool) {
	switch source {
	case "hyperpolyglot":
		return Hyperpolyglot(), true
	case "pygments":
		return Pygments(), true
	case "rosettacode":
		return RosettaCode(), true
	}
	return Table{}, false
}
