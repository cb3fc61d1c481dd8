package crypto

import (
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// 合约中使用的角色名
const (
	RoleDefaultAdmin = "DEFAULT_ADMIN_ROLE"
	RoleProducer     = "PRODUCER_ROLE"
	RoleBuyer        = "BUYER_ROLE"
)

var KnownRoles = []string{RoleDefaultAdmin, RoleProducer, RoleBuyer}

// RoleID 对角色名的 UTF-8 字节做 keccak256。
func RoleID(name string) common.Hash {
	return ethcrypto.Keccak256Hash([]byte(name))
}
