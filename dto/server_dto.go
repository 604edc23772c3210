/*
 * Copyright (C) 2026. Gardel <sunxinao@hotmail.com> and contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package dto

// ServerMeta 服务元数据
type ServerMeta struct {
	ServerName            string `json:"serverName,omitempty"`
	ImplementationName    string `json:"implementationName,omitempty"`
	ImplementationVersion string `json:"implementationVersion,omitempty"`
	CodeLength            int    `json:"codeLength"`
	ValidityMs            int64  `json:"validityMs"`
	TickMs                int64  `json:"tickMs"`
	AckMs                 int64  `json:"ackMs"`
	QrSize                int    `json:"qrSize"`
	QrLevel               string `json:"qrLevel"`
	ClipboardMode         string `json:"clipboardMode"`
}
