/*
Package puzzledata reads the hand-authored puzzle database (data.js) that backs the
crossword site.

The source is a script file holding object literals keyed by quoted puzzle ids:

	const QUIZ_DATABASE = {
	  "gen_01": {
	    title: "창세기: 천지창조",
	    category: "성경",
	    allWords: [ { clue: "태초에 하나님이 ...", answer: "천지" } ]
	  }
	};

The file is lexed into tokens first, so braces and brackets inside string values never
disturb delimiter matching. Record bodies are read by a small recursive-descent reader
that reports a *SyntaxError on malformed input; malformed records are skipped and the
scan moves on. A Catalog collects the extracted puzzles keyed by id, last occurrence wins.
*/
package puzzledata
