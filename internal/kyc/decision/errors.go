package decision

import "errors"

var errShortIssue = errors.New("coordinator returned fewer request ids than attesters")
