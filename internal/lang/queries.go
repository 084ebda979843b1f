package lang

import _ "embed"

//go:embed queries/java/tags.scm
var javaTagsQuery string

//go:embed queries/python/tags.scm
var pythonTagsQuery string
