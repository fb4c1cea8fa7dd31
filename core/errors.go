package core

import "errors"

var ErrEmployeeExists = errors.New("employee with this work email already exists")
