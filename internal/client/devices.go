package client

import "github.com/adhikari10/AI-Meeting-Notes/domain/entities"

// DeviceSelection is the capture source chosen for the next session.
type DeviceSelection struct {
	CaptureType entities.CaptureType
	DeviceID    int
	DeviceName  string
}

// DevicePicker holds the single-select device choice. Selecting the already
// selected device deselects it.
type DevicePicker struct {
	selection *DeviceSelection
}

// Selection returns the current choice, or nil when nothing is selected.
func (p *DevicePicker) Selection() *DeviceSelection {
	return p.selection
}

// Toggle selects the given source, or clears the selection when it is
// already the current one. Returns true when a selection is active after the
// call.
func (p *DevicePicker) Toggle(captureType entities.CaptureType, deviceID int, name string) bool {
	if p.selection != nil &&
		p.selection.CaptureType == captureType &&
		p.selection.DeviceID == deviceID {
		p.selection = nil
		return false
	}
	p.selection = &DeviceSelection{CaptureType: captureType, DeviceID: deviceID, DeviceName: name}
	return true
}

// ApplyAutoDetect routes an auto-detect result through the same toggle, so
// detecting the already selected device behaves like a manual tap.
func (p *DevicePicker) ApplyAutoDetect(deviceID int, name string) bool {
	return p.Toggle(entities.CaptureTypeSpeaker, deviceID, name)
}

// Clear drops the selection.
func (p *DevicePicker) Clear() {
	p.selection = nil
}
