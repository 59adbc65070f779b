// input/key.go
// Copyright(c) 2022-2025 blit contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package input

import (
	"fmt"
)

// Key identifies a physical key, independent of keyboard layout.
type Key int

const (
	KeyUnknown Key = iota

	KeySpace
	KeyBackspace
	KeyEnter
	KeyTab
	KeyCapsLock
	KeyEscape

	KeyLeftShift
	KeyLeftCtrl
	KeyLeftAlt

	KeyUpArrow
	KeyDownArrow
	KeyLeftArrow
	KeyRightArrow

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	KeyGrave
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyMinus
	KeyEquals

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	numKeys
)

var keyNames = [numKeys]string{
	KeyUnknown: "Unknown", KeySpace: "Space", KeyBackspace: "Backspace", KeyEnter: "Enter",
	KeyTab: "Tab", KeyCapsLock: "CapsLock", KeyEscape: "Escape", KeyLeftShift: "LeftShift",
	KeyLeftCtrl: "LeftCtrl", KeyLeftAlt: "LeftAlt", KeyUpArrow: "Up", KeyDownArrow: "Down", KeyLeftArrow: "Left",
	KeyRightArrow: "Right", KeyGrave: "Grave", KeyMinus: "Minus", KeyEquals: "Equals",
}

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		keyNames[k] = string(rune('A' + k - KeyA))
	}
	for k := Key0; k <= Key9; k++ {
		keyNames[k] = string(rune('0' + k - Key0))
	}
	for k := KeyF1; k <= KeyF12; k++ {
		keyNames[k] = fmt.Sprintf("F%d", 1+k-KeyF1)
	}
}

func (k Key) String() string {
	if k < 0 || k >= numKeys {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonX1
	MouseButtonX2
)

func (b MouseButton) String() string {
	if b < 0 || b > MouseButtonX2 {
		return fmt.Sprintf("MouseButton(%d)", int(b))
	}
	return [...]string{"Left", "Middle", "Right", "X1", "X2"}[b]
}
