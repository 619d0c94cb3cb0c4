// Copyright (c) 2026 CinePocket. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinepocket/pkg/pointer"
)

func TestToAndVal(t *testing.T) {
	rating := pointer.To(8)
	assert.Equal(t, 8, *rating)
	assert.Equal(t, 8, pointer.Val(rating))

	var unset *bool
	assert.False(t, pointer.Val(unset))
}
