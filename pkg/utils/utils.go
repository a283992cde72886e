// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

// Contains return true if val exist in list, else return false.
func Contains[T comparable](list []T, val T) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}

// CountIf returns how many elements of list satisfy pred.
func CountIf[T any](list []T, pred func(T) bool) int {
	var count int
	for _, v := range list {
		if pred(v) {
			count++
		}
	}
	return count
}
