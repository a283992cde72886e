// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"gopkg.in/typ.v4/sync2"
)

// Pool reusable objects to reduce garbage collector
type Pool struct {
	Users *sync2.Pool[[]User]
}

func NewPool() *Pool {
	return &Pool{
		Users: &sync2.Pool[[]User]{
			New: func() []User {
				return make([]User, 0, 10)
			},
		},
	}
}
