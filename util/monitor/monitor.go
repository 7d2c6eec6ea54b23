package monitor

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/aldernet/warden/common"
	"github.com/aldernet/warden/util/reader"
)

// TxMonitor polls the chain until a tx hash settles. A tx that stays
// unknown to every node for long enough is reported as lost, which
// usually means it was dropped from the mempool.
type TxMonitor struct {
	reader *reader.EthReader
}

func NewTxMonitor(r *reader.EthReader) *TxMonitor {
	return &TxMonitor{
		reader: r,
	}
}

const lostThreshold = 3 * time.Minute

func (tm *TxMonitor) periodicCheck(hash string, interval time.Duration, statuses chan<- common.TxInfo) {
	var unknownSince time.Time
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		info := tm.reader.TxInfoFromHash(hash)
		switch info.Status {
		case common.TxStatusNotfound:
			if unknownSince.IsZero() {
				unknownSince = time.Now()
			}
			if time.Since(unknownSince) >= lostThreshold {
				info.Status = common.TxStatusLost
				statuses <- info
				close(statuses)
				return
			}
		case common.TxStatusDone, common.TxStatusReverted:
			unknownSince = time.Time{}
			statuses <- info
			close(statuses)
			return
		default:
			unknownSince = time.Time{}
		}
	}
}

// MakeWaitChannel returns a channel that receives exactly one TxInfo once
// the tx is mined, reverted or considered lost, then closes.
func (tm *TxMonitor) MakeWaitChannel(hash string) <-chan common.TxInfo {
	statuses := make(chan common.TxInfo, 1)
	go tm.periodicCheck(hash, 5*time.Second, statuses)
	return statuses
}

// BlockingWait waits for the tx to settle while showing a spinner on the
// terminal.
func (tm *TxMonitor) BlockingWait(hash string) common.TxInfo {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" waiting for %s to be mined", hash)
	s.Start()
	defer s.Stop()
	return <-tm.MakeWaitChannel(hash)
}

// Wait waits for the tx to settle without any terminal output.
func (tm *TxMonitor) Wait(hash string) common.TxInfo {
	return <-tm.MakeWaitChannel(hash)
}
