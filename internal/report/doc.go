// Package report renders the match list of a find session, either as a
// JSON document or as grep-style text lines.
//
// The JSON form looks like:
//
//	{
//	  "source": "notes.txt",
//	  "pattern": "cat",
//	  "options": {"case_sensitive": false, "whole_word": true, "regex": false},
//	  "count": 2,
//	  "current": 0,
//	  "summary": "2 matches.",
//	  "matches": [
//	    {"start": 4, "end": 7, "line": 1, "column": 5, "text": "cat"}
//	  ]
//	}
//
// Lines and columns are 1-based; start and end are byte offsets.
package report
