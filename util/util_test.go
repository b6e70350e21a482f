package util

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestIsLetterOrUnderscoreOrNumber(t *testing.T) {
	for _, b := range []byte("azAZ_09") {
		assert.True(t, IsLetterOrUnderscoreOrNumber(b), string(b))
	}
	for _, b := range []byte(" .-$/\n") {
		assert.False(t, IsLetterOrUnderscoreOrNumber(b), string(b))
	}
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber('0'))
	assert.True(t, IsNumber('9'))
	assert.False(t, IsNumber('a'))
}

func TestIsBlankAndLineBreak(t *testing.T) {
	assert.True(t, IsBlank(' '))
	assert.True(t, IsBlank('\t'))
	assert.False(t, IsBlank('\n'))
	assert.True(t, IsLineBreak('\n'))
	assert.True(t, IsLineBreak('\r'))
	assert.False(t, IsLineBreak('x'))
}
