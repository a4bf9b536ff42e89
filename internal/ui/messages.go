package ui

import "time"

type frameMsg time.Time
