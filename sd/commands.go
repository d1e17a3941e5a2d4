package sd

import "fmt"

// cmdResponses maps each SPI-mode command index to the response shape the
// card replies with.
var cmdResponses = map[uint8]ResponseKind{
	0:  KindR1,  // GO_IDLE_STATE
	1:  KindR1,  // SEND_OP_COND
	6:  KindR1,  // SWITCH_FUNC
	8:  KindR7,  // SEND_IF_COND
	9:  KindR1,  // SEND_CSD
	10: KindR1,  // SEND_CID
	12: KindR1b, // STOP_TRANSMISSION
	13: KindR2,  // SEND_STATUS
	16: KindR1,  // SET_BLOCKLEN
	17: KindR1,  // READ_SINGLE_BLOCK
	18: KindR1,  // READ_MULTIPLE_BLOCK
	24: KindR1,  // WRITE_BLOCK
	25: KindR1,  // WRITE_MULTIPLE_BLOCK
	27: KindR1,  // PROGRAM_CSD
	28: KindR1b, // SET_WRITE_PROT
	29: KindR1b, // CLR_WRITE_PROT
	30: KindR1,  // SEND_WRITE_PROT
	32: KindR1,  // ERASE_WR_BLK_START_ADDR
	33: KindR1,  // ERASE_WR_BLK_END_ADDR
	38: KindR1b, // ERASE
	42: KindR1,  // LOCK_UNLOCK
	55: KindR1,  // APP_CMD
	56: KindR1,  // GEN_CMD
	58: KindR3,  // READ_OCR
	59: KindR1,  // CRC_ON_OFF
}

// acmdResponses maps the application command indices (sent after CMD55).
var acmdResponses = map[uint8]ResponseKind{
	13: KindR2, // SD_STATUS
	22: KindR1, // SEND_NUM_WR_BLOCKS
	23: KindR1, // SET_WR_BLK_ERASE_COUNT
	41: KindR1, // SD_SEND_OP_COND
	42: KindR1, // SET_CLR_CARD_DETECT
	51: KindR1, // SEND_SCR
}

// UnknownCommandError indicates a command index with no entry in the
// response-shape table. It is raised before any wire I/O.
type UnknownCommandError struct {
	Cmd uint8

	// App is true when the index was looked up as an application command.
	App bool
}

func (e *UnknownCommandError) Error() string {
	prefix := "CMD"
	if e.App {
		prefix = "ACMD"
	}
	return fmt.Sprintf("%s%d is not a valid SD command in SPI mode", prefix, e.Cmd)
}

// cmdExpectedResponse resolves the response shape of a command index.
func cmdExpectedResponse(cmd uint8) (ResponseKind, error) {
	kind, ok := cmdResponses[cmd]
	if !ok {
		return 0, &UnknownCommandError{Cmd: cmd}
	}
	return kind, nil
}

// acmdExpectedResponse resolves the response shape of an application
// command index.
func acmdExpectedResponse(acmd uint8) (ResponseKind, error) {
	kind, ok := acmdResponses[acmd]
	if !ok {
		return 0, &UnknownCommandError{Cmd: acmd, App: true}
	}
	return kind, nil
}
