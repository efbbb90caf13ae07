//go:build !(rp2040 || rp2350)

// services/link/nus.go
package link

import (
	"tinygo.org/x/bluetooth"

	"companioncode-go/x/bytering"
)

// NUSPort exposes a Nordic UART Service peripheral as a link Port.
// Central writes land in a lock-free ring via the BLE stack's callback
// goroutine; the control loop drains them through Buffered/ReadByte.
// Outbound writes are chunked to the NUS notification size.
type NUSPort struct {
	rx     *bytering.Ring
	txChar bluetooth.Characteristic
}

const (
	nusChunk = 20

	// A few full protocol lines; a central that floods faster than the
	// loop drains loses the newest bytes and the assembler resynchronizes
	// at the next newline.
	nusQueueSize = 4096
)

// ListenNUS enables the adapter, registers the UART service and starts
// advertising under the given local name.
func ListenNUS(adapter *bluetooth.Adapter, name string) (*NUSPort, error) {
	p := &NUSPort{rx: bytering.New(nusQueueSize)}

	if err := adapter.Enable(); err != nil {
		return nil, err
	}

	var rxChar bluetooth.Characteristic
	err := adapter.AddService(&bluetooth.Service{
		UUID: bluetooth.ServiceUUIDNordicUART,
		Characteristics: []bluetooth.CharacteristicConfig{
			{
				Handle: &rxChar,
				UUID:   bluetooth.CharacteristicUUIDUARTRX,
				Flags:  bluetooth.CharacteristicWritePermission | bluetooth.CharacteristicWriteWithoutResponsePermission,
				WriteEvent: func(client bluetooth.Connection, offset int, value []byte) {
					p.rx.WriteFrom(value)
				},
			},
			{
				Handle: &p.txChar,
				UUID:   bluetooth.CharacteristicUUIDUARTTX,
				Flags:  bluetooth.CharacteristicNotifyPermission | bluetooth.CharacteristicReadPermission,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	adv := adapter.DefaultAdvertisement()
	if err := adv.Configure(bluetooth.AdvertisementOptions{
		LocalName:    name,
		ServiceUUIDs: []bluetooth.UUID{bluetooth.ServiceUUIDNordicUART},
	}); err != nil {
		return nil, err
	}
	if err := adv.Start(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *NUSPort) Buffered() int { return p.rx.Available() }

func (p *NUSPort) ReadByte() (byte, error) {
	b, ok := p.rx.ReadByte()
	if !ok {
		return 0, errNoData
	}
	return b, nil
}

func (p *NUSPort) Write(buf []byte) (int, error) {
	total := 0
	for len(buf) > 0 {
		n := nusChunk
		if len(buf) < n {
			n = len(buf)
		}
		if _, err := p.txChar.Write(buf[:n]); err != nil {
			return total, err
		}
		total += n
		buf = buf[n:]
	}
	return total, nil
}
